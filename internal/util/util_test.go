// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TRUNCATION TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxRunes int
		expected string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate with ellipsis", "hello world", 8, "hello..."},
		{"tiny limit", "hello", 2, "he"},
		{"zero limit", "hello", 0, ""},
		{"utf8", "héllo wörld", 6, "hél..."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TruncateRunes(tc.input, tc.maxRunes))
		})
	}
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 6, StringWidth("日本語"))
	assert.Equal(t, 0, StringWidth(""))
}

func TestTruncateWidth(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ascii cut", "hello world", 8, "hello..."},
		{"cjk cut", "日本語テキスト", 7, "日本..."},
		{"no room for ellipsis", "hello", 2, "he"},
		{"zero width", "hello", 0, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := TruncateWidth(tc.input, tc.maxWidth)
			assert.Equal(t, tc.expected, result)
			assert.LessOrEqual(t, StringWidth(result), tc.maxWidth)
		})
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestWrapWidth(t *testing.T) {
	wrapped := WrapWidth("aaaa bbbb cccc\nshort", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, StringWidth(line), 9)
	}
	assert.True(t, strings.HasSuffix(wrapped, "\nshort"))

	assert.Equal(t, "unchanged", WrapWidth("unchanged", 0))
}

func TestAlignRight(t *testing.T) {
	assert.Equal(t, "   abc", AlignRight("abc", 6))
	assert.Equal(t, "  日本", AlignRight("日本", 6))
	assert.Equal(t, " ab\ncde", AlignRight("ab\ncde", 3))
	assert.Equal(t, "toolong", AlignRight("toolong", 3))
}
