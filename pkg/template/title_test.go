package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperflow/paperflow/pkg/models"
)

func testEvent() *models.DocumentEvent {
	return &models.DocumentEvent{
		DocumentID:    "doc-1",
		Kind:          models.TriggerTypeConsumption,
		Source:        models.SourceMailFetch,
		Filename:      "statement.pdf",
		Title:         "Statement",
		Correspondent: "ACME Bank",
		DocumentType:  "Bank Statement",
		Owner:         "alice",
		Created:       time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
		Added:         time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderTitle(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"no placeholders", "Inbox document", "Inbox document"},
		{"correspondent and year", "{correspondent} {created_year}", "ACME Bank 2024"},
		{"date parts", "{created}-{created_month}-{created_day}", "2024-03-07-03-07"},
		{"added date", "{added} ({added_year})", "2024-04-01 (2024)"},
		{"filename and source", "{original_filename} via {source}", "statement.pdf via mail_fetch"},
		{"existing title", "Copy of {title}", "Copy of Statement"},
		{"owner and type", "{owner}/{document_type}", "alice/Bank Statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTitle(tt.template, testEvent())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTitle_UnknownPlaceholder(t *testing.T) {
	_, err := RenderTitle("{correspondent} {invoice_number}", testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice_number")
}

func TestRenderTitle_Deterministic(t *testing.T) {
	event := testEvent()

	first, err := RenderTitle("{correspondent} {created}", event)
	require.NoError(t, err)

	second, err := RenderTitle("{correspondent} {created}", event)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
