// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lowercase y", input: "y\n", want: true},
		{name: "yes", input: "yes\n", want: true},
		{name: "uppercase Y", input: "Y\n", want: true},
		{name: "mixed case YES", input: "YeS\n", want: true},
		{name: "padded yes", input: "  yes  \n", want: true},
		{name: "n declines", input: "n\n", want: false},
		{name: "empty declines", input: "\n", want: false},
		{name: "anything else declines", input: "sure\n", want: false},
		{name: "eof declines", input: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmReader("Delete course 3?", strings.NewReader(tt.input), &out)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete course 3? (y/N): ")
		})
	}
}
