// Package surreal is a thin read-oriented wrapper around the SurrealDB
// driver. The pet profiles live in a database owned by the admin
// surface; this side only ever queries it.
package surreal

import (
	"context"
	"fmt"
	"reflect"

	"github.com/surrealdb/surrealdb.go"
)

type Client struct {
	db *surrealdb.DB
}

func NewClient(host, user, pass, namespace, database string) (*Client, error) {
	db, err := surrealdb.New(host)
	if err != nil {
		return nil, fmt.Errorf("failed to create surrealdb client: %w", err)
	}

	if _, err = db.SignIn(context.Background(), map[string]interface{}{
		"user": user,
		"pass": pass,
	}); err != nil {
		return nil, fmt.Errorf("failed to signin to surrealdb: %w", err)
	}

	if err = db.Use(context.Background(), namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use surrealdb namespace/database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() {
	c.db.Close(context.Background())
}

// Ping runs a trivial statement to verify the session is still live.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, "RETURN 1", nil)
	return err
}

// Query runs a SurrealQL statement and unwraps the driver's response
// envelope down to the raw Result of the last statement.
func (c *Client) Query(ctx context.Context, sql string, vars map[string]interface{}) (interface{}, error) {
	result, err := surrealdb.Query[interface{}](ctx, c.db, sql, vars)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		resField := rv.FieldByName("Result")
		if resField.IsValid() {
			return resField.Interface(), nil
		}
	} else if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		lastElem := rv.Index(rv.Len() - 1)
		if lastElem.Kind() == reflect.Struct {
			resField := lastElem.FieldByName("Result")
			if resField.IsValid() {
				return resField.Interface(), nil
			}
		}
	}

	return result, nil
}

// QueryRows runs Query and narrows the result to a list of row maps.
// A missing or empty result is returned as a nil slice, not an error.
func (c *Client) QueryRows(ctx context.Context, sql string, vars map[string]interface{}) ([]map[string]interface{}, error) {
	result, err := c.Query(ctx, sql, vars)
	if err != nil {
		return nil, err
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}

	rows := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
