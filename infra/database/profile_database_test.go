package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLXURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db", "postgres://u:p@localhost:5432/db?default_query_exec_mode=simple_protocol"},
		{"postgres://u:p@localhost:5432/db?sslmode=disable", "postgres://u:p@localhost:5432/db?sslmode=disable&default_query_exec_mode=simple_protocol"},
		{"postgres://localhost/db?default_query_exec_mode=exec", "postgres://localhost/db?default_query_exec_mode=exec"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLXURL(tt.in))
		})
	}
}
