package layout_test

import (
	"testing"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/minvoice/minvoice/internal/domain/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_AllPresets(t *testing.T) {
	for _, name := range domain.ValidTemplates {
		tpl, err := layout.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tpl.Name)
		assert.NotEmpty(t, tpl.Headers)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := layout.Lookup("receipt")
	assert.ErrorIs(t, err, domain.ErrUnknownTemplate)
}

func TestForDocument(t *testing.T) {
	inv := domain.Document{Kind: domain.KindInvoice}
	tpl, err := layout.ForDocument(inv, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "invoice", tpl.Name)

	prop := domain.Document{Kind: domain.KindProposal}
	tpl, err = layout.ForDocument(prop, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "proposal", tpl.Name)

	tpl, err = layout.ForDocument(prop, "project-proposal")
	require.NoError(t, err)
	assert.Equal(t, "project-proposal", tpl.Name)

	tpl, err = layout.ForDocument(inv, "project-proposal")
	require.NoError(t, err)
	assert.Equal(t, "invoice", tpl.Name)
}

func TestForDocument_KindMismatch(t *testing.T) {
	doc := domain.Document{Kind: domain.KindInvoice, Template: "proposal"}
	_, err := layout.ForDocument(doc, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renders proposal documents")
}
