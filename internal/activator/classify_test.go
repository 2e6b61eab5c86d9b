package activator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Class
	}{
		{
			"missing table",
			`{"error":{"message":"Failed to run the analytics rule query. One of the tables does not exist."}}`,
			ClassMissingTable,
		},
		{
			"missing table, different casing",
			`ONE OF THE TABLES DOES NOT EXIST`,
			ClassMissingTable,
		},
		{
			"missing column",
			`{"error":{"message":"The given column 'LogonResult' does not exist"}}`,
			ClassMissingColumn,
		},
		{
			"scalar expression",
			`{"error":{"code":"FailedToResolveScalarExpression"}}`,
			ClassInvalidQuery,
		},
		{
			"semantic error",
			`{"error":{"code":"SemanticError","message":"query is invalid"}}`,
			ClassInvalidQuery,
		},
		{
			"anything else",
			`{"error":{"code":"InternalServerError"}}`,
			ClassFailed,
		},
		{
			"empty body",
			"",
			ClassFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.body))
		})
	}
}

func TestClass_Ignorable(t *testing.T) {
	assert.True(t, ClassMissingTable.Ignorable())
	assert.True(t, ClassMissingColumn.Ignorable())
	assert.True(t, ClassInvalidQuery.Ignorable())
	assert.False(t, ClassFailed.Ignorable())
}
