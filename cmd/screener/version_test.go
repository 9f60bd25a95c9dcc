package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	b := buildInfo{Version: "1.2.0", Commit: "0123456789abcdef", GoVersion: "go1.24.4"}.withDefaults()

	var buf bytes.Buffer
	printVersion(&buf, b, false)
	assert.Equal(t, "screener 1.2.0 (0123456789ab)\n  built: unknown\n  go:    go1.24.4\n", buf.String())

	buf.Reset()
	printVersion(&buf, b, true)
	assert.Equal(t, "1.2.0\n", buf.String())
}
