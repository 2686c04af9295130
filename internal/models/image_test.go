// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name    string
		folder  string
		queried string
		want    string
	}{
		{name: "folder wins over query", folder: "njora-photos/Sunsets", queried: "Beaches", want: "Sunsets"},
		{name: "folder trailing slash", folder: "njora-photos/Sunsets/", want: "Sunsets"},
		{name: "single segment folder", folder: "njora-photos", want: "njora-photos"},
		{name: "query fallback", queried: "Beaches", want: "Beaches"},
		{name: "root fallback", want: RootCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.folder, tt.queried); got != tt.want {
				t.Errorf("ResolveCategory(%q, %q) = %q, want %q", tt.folder, tt.queried, got, tt.want)
			}
		})
	}
}

func TestImageApplyDefaults(t *testing.T) {
	t.Run("empty metadata", func(t *testing.T) {
		img := &Image{}
		img.ApplyDefaults()
		if img.Name != DefaultName {
			t.Errorf("Name = %q, want %q", img.Name, DefaultName)
		}
		if img.Description != DefaultDescription {
			t.Errorf("Description = %q, want %q", img.Description, DefaultDescription)
		}
	})

	t.Run("keeps existing metadata", func(t *testing.T) {
		img := &Image{Name: "Dawn", Description: "Over the lake"}
		img.ApplyDefaults()
		if img.Name != "Dawn" || img.Description != "Over the lake" {
			t.Errorf("got %q / %q, metadata was overwritten", img.Name, img.Description)
		}
	})
}

func TestContextRoundTrip(t *testing.T) {
	tests := []Context{
		{Name: "Dawn", Description: ""},
		{Name: "Dawn", Description: "Over the lake"},
		{Name: "a|b", Description: "x=y|z=w"},
		{Name: "100% real", Description: "Café au lait"},
		{Name: "", Description: ""},
	}

	for _, want := range tests {
		t.Run(want.Name, func(t *testing.T) {
			got := ParseContext(want.Pack())
			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestContextPackFormat(t *testing.T) {
	got := Context{Name: "Dawn", Description: "No clouds"}.Pack()
	want := "name=Dawn|description=No%20clouds"
	if got != want {
		t.Errorf("Pack() = %q, want %q", got, want)
	}
}

func TestParseContextLegacy(t *testing.T) {
	tests := []struct {
		packed string
		want   Context
	}{
		{"name=Dawn|description=undefined", Context{Name: "Dawn", Description: "undefined"}},
		{"name=50%|description=plain text", Context{Name: "50%", Description: "plain text"}},
		{"description=only", Context{Description: "only"}},
		{"garbage", Context{}},
		{"", Context{}},
	}

	for _, tt := range tests {
		t.Run(tt.packed, func(t *testing.T) {
			if got := ParseContext(tt.packed); got != tt.want {
				t.Errorf("ParseContext(%q) = %+v, want %+v", tt.packed, got, tt.want)
			}
		})
	}
}
