package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"house-viewer/internal/viewer/models"
)

var ErrFetch = errors.New("fetch document")

// ============================================================
// Loader
// ============================================================

// Loader читает документы по http(s) URL или из файла.
type Loader struct {
	client *http.Client
}

func New(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Fetch возвращает сырое тело документа.
func (l *Loader) Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrFetch)
	}

	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		log.Printf("[LOADER] Read %s (%d bytes)", source, len(data))
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	log.Printf("[LOADER] Fetched %s (%d bytes)", source, len(data))
	return data, nil
}

// FetchHouse загружает и валидирует документ house.json.
func (l *Loader) FetchHouse(ctx context.Context, source string) (*models.HouseDocument, []byte, error) {
	data, err := l.Fetch(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	doc, err := models.DecodeHouse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// FetchFlat загружает документ house01.json.
func (l *Loader) FetchFlat(ctx context.Context, source string) (*models.FlatDocument, []byte, error) {
	data, err := l.Fetch(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	doc, err := models.DecodeFlat(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}
