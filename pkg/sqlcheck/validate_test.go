package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		want    string
		wantErr error
	}{
		{
			name: "plain statement",
			sql:  "SELECT * FROM users",
			want: "SELECT * FROM users",
		},
		{
			name: "trailing semicolon stripped",
			sql:  "SELECT * FROM users;",
			want: "SELECT * FROM users",
		},
		{
			name: "trailing semicolon with whitespace",
			sql:  "  SELECT * FROM users ;  \n",
			want: "SELECT * FROM users",
		},
		{
			name:    "two statements rejected",
			sql:     "SELECT 1; SELECT 2",
			wantErr: ErrMultipleStatements,
		},
		{
			name:    "two statements with trailing semicolon",
			sql:     "SELECT 1; DROP TABLE users;",
			wantErr: ErrMultipleStatements,
		},
		{
			name: "semicolon inside single-quoted literal",
			sql:  "SELECT * FROM notes WHERE body = 'a; b'",
			want: "SELECT * FROM notes WHERE body = 'a; b'",
		},
		{
			name: "semicolon inside double-quoted identifier",
			sql:  `SELECT "weird;name" FROM t`,
			want: `SELECT "weird;name" FROM t`,
		},
		{
			name: "escaped quote inside literal",
			sql:  `SELECT * FROM t WHERE s = 'it\'s; fine'`,
			want: `SELECT * FROM t WHERE s = 'it\'s; fine'`,
		},
		{
			name: "empty input",
			sql:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.sql)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
