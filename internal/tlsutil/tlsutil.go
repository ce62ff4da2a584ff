// Package tlsutil 统一出站 HTTP 的 TLS 加固.
// 所有 vendor 适配器与模型下载共用这里的客户端：最低 TLS 1.2，仅 AEAD 套件。
package tlsutil

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// aeadCipherSuites 是允许的套件白名单，全部为前向安全的 AEAD 组合。
var aeadCipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
}

// ClientTLSConfig 返回出站连接的 TLS 配置。
func ClientTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		CipherSuites: aeadCipherSuites,
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		TLSClientConfig: ClientTLSConfig(),
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// SecureHTTPClient 返回加固后的 http.Client。
// timeout 覆盖整个请求（模型下载这类大响应体要给足）；0 表示不限时。
func SecureHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
}
