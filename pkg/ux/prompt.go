// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a blocking yes/no question on the terminal and returns the
// user's decision. Anything other than "y" or "yes" declines.
//
// Destructive operations call this before touching any state; declining
// must abort with no state change and no network call, which holds as
// long as the caller checks the result before acting.
func Confirm(question string) bool {
	return ConfirmReader(question, os.Stdin, os.Stdout)
}

// ConfirmReader is Confirm with injectable streams for testing.
func ConfirmReader(question string, in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
