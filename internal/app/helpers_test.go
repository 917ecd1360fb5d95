package app

import (
	"net/http/cookiejar"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/learnlingo/learnlingo/testing"
)

func newJar(t *testing.T) *cookiejar.Jar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}
