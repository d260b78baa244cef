package proxy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 代理地址按轮询顺序循环使用
func TestRoundRobinProxySwitcher(t *testing.T) {
	p, err := RoundRobinProxySwitcher("http://127.0.0.1:8888", "http://127.0.0.1:9999")
	require.NoError(t, err)

	req := &http.Request{}
	first, err := p(req)
	require.NoError(t, err)
	second, err := p(req)
	require.NoError(t, err)
	third, err := p(req)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8888", first.String())
	assert.Equal(t, "http://127.0.0.1:9999", second.String())
	assert.Equal(t, first.String(), third.String())
}

// 没有可用代理时报错
func TestRoundRobinProxySwitcherEmpty(t *testing.T) {
	_, err := RoundRobinProxySwitcher()
	assert.Error(t, err)
}
