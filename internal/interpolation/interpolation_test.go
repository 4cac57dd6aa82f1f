package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"none", "Hello World", nil},
		{"simple", "Hello $name", []string{"$name"}},
		{"braced", "Total: ${items.length} items", []string{"${items.length}"}},
		{"both", "$greeting, ${user.name}!", []string{"$greeting", "${user.name}"}},
		{"escaped dollar", `Price \$5`, nil},
		{"double backslash", `path \\$dir`, []string{"$dir"}},
		{"lone dollar", "costs $ 5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.value))
			assert.Equal(t, tt.want != nil, Contains(tt.value))
		})
	}
}

func TestFindAll_Positions(t *testing.T) {
	matches := FindAll("a ${b} c")
	if assert.Len(t, matches, 1) {
		assert.Equal(t, 2, matches[0].Start)
		assert.Equal(t, 6, matches[0].End)
	}
}
