package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/okian/hiscore/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Multipart form field names.
const (
	FieldEntryFile = "entry_file"
	FieldScoreFile = "score_file"
)

// multipartMemory is the part of a form kept in memory before spilling
// to disk during parsing.
const multipartMemory = 1 << 20

// staged holds the paths of uploads copied to temp storage.
type staged struct {
	entry string
	score string
}

// remove deletes both staged files. Missing files are ignored.
func (s staged) remove() {
	for _, p := range []string{s.entry, s.score} {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// stageUploads parses the multipart body of r and copies the entry and
// score parts to tempDir concurrently. The caller must call remove on the
// result, also when an error is returned.
func stageUploads(ctx context.Context, w http.ResponseWriter, r *http.Request, maxBytes int64, tempDir string) (staged, error) {
	const op = "api.stage_uploads"
	if r.ContentLength > maxBytes {
		return staged{}, NewKind(op, ErrUploadTooLarge)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return staged{}, WrapKind(op, ErrUploadTooLarge, err)
		}
		return staged{}, WrapKind(op, ErrBadRequest, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	entry, err := formFile(r, FieldEntryFile)
	if err != nil {
		return staged{}, WrapKind(op, ErrMissingFile, err)
	}
	score, err := formFile(r, FieldScoreFile)
	if err != nil {
		return staged{}, WrapKind(op, ErrMissingFile, err)
	}

	out := staged{
		entry: filepath.Join(tempDir, "entry_"+uuid.NewString()+".csv"),
		score: filepath.Join(tempDir, "score_"+uuid.NewString()+".csv"),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return copyPart(gctx, entry, out.entry) })
	g.Go(func() error { return copyPart(gctx, score, out.score) })
	if err := g.Wait(); err != nil {
		return out, WrapKind(op, ErrStage, err)
	}
	return out, nil
}

func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, fmt.Errorf("%s: %w", field, http.ErrMissingFile)
	}
	return r.MultipartForm.File[field][0], nil
}

// copyPart writes the uploaded part to dst, which must not exist yet.
func copyPart(ctx context.Context, fh *multipart.FileHeader, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer func() { _ = src.Close() }()

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return fmt.Errorf("copy %s: %w", fh.Filename, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	metrics.RecordUploadStaged()
	return nil
}
