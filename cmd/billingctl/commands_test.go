package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueriesCommandListsCatalogue(t *testing.T) {
	rc := newRootCommand()
	var out bytes.Buffer
	rc.SetOut(&out)
	rc.SetArgs([]string{"queries"})

	require.NoError(t, rc.Execute())
	assert.Contains(t, out.String(), " 0  load-data")
	assert.Contains(t, out.String(), " 9  invoices-by-brand")
	assert.Contains(t, out.String(), "(--brand)")
}

func TestQueryCommandRequiresName(t *testing.T) {
	rc := newRootCommand()
	rc.SetOut(&bytes.Buffer{})
	rc.SetErr(&bytes.Buffer{})
	rc.SetArgs([]string{"query"})

	assert.Error(t, rc.Execute())
}
