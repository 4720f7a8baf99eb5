// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyAPIKey is returned when an empty or blank API key is saved.
var ErrEmptyAPIKey = errors.New("API key must not be empty")

// Credentials persists the provider API key. An absent key means the user has not been
// onboarded yet.
type Credentials struct {
	store Store
}

func NewCredentials(store Store) *Credentials {
	return &Credentials{store: store}
}

// Load returns the stored API key and whether one is present.
func (c *Credentials) Load(ctx context.Context) (string, bool, error) {
	key, ok, err := c.store.Get(ctx, KeyAPIKey)
	if err != nil || !ok {
		return "", false, err
	}
	key = strings.TrimSpace(key)
	return key, key != "", nil
}

// Save trims and stores the API key.
func (c *Credentials) Save(ctx context.Context, apikey string) error {
	apikey = strings.TrimSpace(apikey)
	if apikey == "" {
		return ErrEmptyAPIKey
	}
	return c.store.Set(ctx, KeyAPIKey, apikey)
}

// Remove deletes the stored API key.
func (c *Credentials) Remove(ctx context.Context) error {
	return c.store.Remove(ctx, KeyAPIKey)
}
