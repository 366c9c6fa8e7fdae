package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"
)

const maxConflictRetries = 3

// Couch persists keys as CouchDB documents so credentials survive restarts
// and can be shared between the CLI and a long-running watcher.
type Couch struct {
	client *kivik.Client
	dbName string
}

type kvDocument struct {
	ID    string `json:"_id"`
	Rev   string `json:"_rev,omitempty"`
	Value string `json:"value"`
}

func NewCouch(client *kivik.Client, dbName string) *Couch {
	return &Couch{
		client: client,
		dbName: dbName,
	}
}

var _ KV = (*Couch)(nil)

// EnsureDB creates the backing database when it does not exist yet.
func (c *Couch) EnsureDB(ctx context.Context) error {
	exists, err := c.client.DBExists(ctx, c.dbName)
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := c.client.CreateDB(ctx, c.dbName); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}

func (c *Couch) Get(ctx context.Context, key string) (string, error) {
	doc, err := c.load(ctx, key)
	if err != nil {
		return "", err
	}
	return doc.Value, nil
}

func (c *Couch) Set(ctx context.Context, key, value string) error {
	db := c.client.DB(c.dbName)

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		doc := kvDocument{ID: docID(key), Value: value}

		current, err := c.load(ctx, key)
		switch {
		case err == nil:
			doc.Rev = current.Rev
		case !errors.Is(err, ErrNotFound):
			return err
		}

		_, err = db.Put(ctx, doc.ID, doc)
		if err == nil {
			return nil
		}
		if kivik.HTTPStatus(err) != http.StatusConflict {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}

	return fmt.Errorf("failed to store %s: too many update conflicts", key)
}

func (c *Couch) Delete(ctx context.Context, keys ...string) error {
	db := c.client.DB(c.dbName)

	for _, key := range keys {
		current, err := c.load(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if _, err := db.Delete(ctx, current.ID, current.Rev); err != nil && kivik.HTTPStatus(err) != http.StatusNotFound {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	return nil
}

func (c *Couch) load(ctx context.Context, key string) (*kvDocument, error) {
	db := c.client.DB(c.dbName)

	var doc kvDocument
	if err := db.Get(ctx, docID(key)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return &doc, nil
}

func docID(key string) string {
	return "kv:" + key
}
