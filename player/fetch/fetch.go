// Package fetch downloads the video asset. The whole blob is fetched up
// front, before decoding starts. The containers we play are small enough
// that streaming the download would buy nothing but complexity.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyclopcam/logs"
)

// Binary downloads url and returns the response body. If the server sends
// Content-Length, the buffer is allocated once up front.
func Binary(ctx context.Context, log logs.Log, url string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch %v: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Failed to fetch %v: %v", url, resp.Status)
	}

	var blob []byte
	if resp.ContentLength > 0 {
		blob = make([]byte, 0, resp.ContentLength)
	}
	buf := make([]byte, 1024*1024)
	for {
		n, err := resp.Body.Read(buf)
		blob = append(blob, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("Failed reading %v after %v bytes: %w", url, len(blob), err)
		}
	}

	log.Debugf("Fetched %v bytes from %v in %.1f ms", len(blob), url, time.Since(start).Seconds()*1000)
	return blob, nil
}
