// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"net/url"
	"strings"
)

const (
	contextPairSep = "|"
	contextKVSep   = "="
)

// Context is the per-asset metadata kept by the remote media service.
type Context struct {
	Name        string
	Description string
}

// Pack encodes the context as "name=<name>|description=<description>".
// Values are percent-encoded, so separators inside them survive a round
// trip and the packed string stays ASCII.
func (c Context) Pack() string {
	return "name" + contextKVSep + url.PathEscape(c.Name) +
		contextPairSep +
		"description" + contextKVSep + url.PathEscape(c.Description)
}

// ParseContext decodes a packed context string. Unknown keys are ignored.
// Values that are not valid percent-encoding are kept verbatim so strings
// written by older uploaders still read back.
func ParseContext(packed string) Context {
	var c Context
	if packed == "" {
		return c
	}
	for _, pair := range strings.Split(packed, contextPairSep) {
		key, value, ok := strings.Cut(pair, contextKVSep)
		if !ok {
			continue
		}
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		switch strings.TrimSpace(key) {
		case "name":
			c.Name = value
		case "description":
			c.Description = value
		}
	}
	return c
}
