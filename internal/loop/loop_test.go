package loop

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
)

func TestRunReturnsWhenInputCloses(t *testing.T) {
	tun := config.DefaultTuning()
	tun.Stars.Count = 0
	var out bytes.Buffer

	err := Run(bufio.NewReader(strings.NewReader(" ")), &out, tun, Options{
		TermSizeFunc: func() (int, int, error) { return 80, 24, nil },
	})

	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}
