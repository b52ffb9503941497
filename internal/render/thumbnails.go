package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxThumbnailBytes = 4 << 20
	thumbnailWidth    = 320
	thumbnailHeight   = 240
)

// ThumbnailFetcher downloads thumbnail image bytes.
type ThumbnailFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPThumbnailFetcher fetches thumbnails over HTTP.
type HTTPThumbnailFetcher struct {
	client *http.Client
}

func NewHTTPThumbnailFetcher(client *http.Client) *HTTPThumbnailFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPThumbnailFetcher{client: client}
}

func (f *HTTPThumbnailFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build thumbnail request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch thumbnail: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	if len(data) > maxThumbnailBytes {
		return nil, fmt.Errorf("thumbnail exceeds %d bytes", maxThumbnailBytes)
	}
	return data, nil
}

// normalizeThumbnail decodes any supported image format, scales it to fit the
// thumbnail box and re-encodes it as JPEG so the PDF writer only ever sees a
// well-formed image.
func normalizeThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode thumbnail: empty image")
	}

	w, h := fitWithin(b.Dx(), b.Dy(), thumbnailWidth, thumbnailHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h down to fit maxW x maxH, keeping the aspect ratio.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
