package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSum(t *testing.T) {
	tests := []struct {
		sum  int64
		want string
	}{
		{0, "0 so'm"},
		{500, "500 so'm"},
		{9000, "9 000 so'm"},
		{15000, "15 000 so'm"},
		{250000, "250 000 so'm"},
		{1000000, "1 000 000 so'm"},
		{1234567890, "1 234 567 890 so'm"},
		{-15000, "-15 000 so'm"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSum(tt.sum), "sum=%d", tt.sum)
	}
}
