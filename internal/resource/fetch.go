// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"context"
	"net/http"
	"net/url"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/internal/httputil"
	"github.com/pdiddy/enexmark/pkg/types"
)

// FetchRemote downloads a resource referenced by http(s) URL and ingests it.
// The filename is taken from the URL path when it carries one; otherwise the
// resource falls back to its synthetic hash-based name. Failures are
// per-resource: the caller logs and leaves the reference as literal text.
func (s *Store) FetchRemote(ctx context.Context, client *http.Client, rawURL string, cfg types.HTTPConfig) (*types.Resource, error) {
	data, mimeType, err := httputil.FetchBytes(ctx, client, rawURL, cfg)
	if err != nil {
		return nil, err
	}

	var name string
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			name = base
		}
	}

	r := s.Ingest(data, mimeType, name, "")
	s.log.WithFields(logrus.Fields{
		"url":  rawURL,
		"mime": mimeType,
		"size": r.Size,
	}).Debug("fetched remote resource")
	return r, nil
}
