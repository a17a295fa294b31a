// Package retriever fetches a single FileSpec from its owning server, via
// whichever RetrieveMethod the plan assigned it, and enforces the
// per-file correctness contract: destination rules, overwrite policy,
// scoped directory creation, and a post-fetch size check.
package retriever

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/nrao/yoink/internal/fsutil"
	"github.com/nrao/yoink/log"
	"github.com/nrao/yoink/report"
	"github.com/nrao/yoink/retry"
	"github.com/nrao/yoink/yokerr"
)

const (
	// chunkSize is a correctness detail, not a tuning knob: the source
	// ecosystem has observed truncated downloads when this is varied.
	// Always write exactly what the HTTP layer yields per Read, in chunks
	// no larger than this.
	chunkSize = 8192

	directCopyPlugin = "ngamsDirectCopyDppi"

	maxTries      = 10
	sleepInterval = 1 * time.Second
)

// ngamsStatus is the XML error body the storage server returns on a
// non-200 response.
type ngamsStatus struct {
	XMLName xml.Name `xml:"NgamsStatus"`
	Message string   `xml:"Message,attr"`
}

// Retriever fetches files into outputDir.
type Retriever struct {
	OutputDir      string
	DryRun         bool
	ForceOverwrite bool
	Client         *http.Client

	// MaxTries and SleepInterval govern the Retryer around each fetch
	// primitive; they default to the spec's MAX_TRIES=10,
	// SLEEP_INTERVAL=1s but are overridable so tests don't have to sit
	// through the full backoff.
	MaxTries      int
	SleepInterval time.Duration
}

// New returns a Retriever with a default HTTP client. Neither fetch
// primitive sets a request timeout: streaming responses have no upper bound
// on how long they may take, since file sizes vary widely, and copy-fetch
// requests are bounded only by the caller's context.
func New(outputDir string, dryRun, forceOverwrite bool) *Retriever {
	return &Retriever{
		OutputDir:      outputDir,
		DryRun:         dryRun,
		ForceOverwrite: forceOverwrite,
		Client:         &http.Client{},
		MaxTries:       maxTries,
		SleepInterval:  sleepInterval,
	}
}

// Outcome reports what Fetch actually did, for logging and testing.
type Outcome struct {
	Destination    string
	Tries          int
	FetchAttempted bool
}

// Fetch retrieves file from server using mode, returning the destination
// path it wrote (or would have written, on dry-run).
func (r *Retriever) Fetch(ctx context.Context, server report.ServerRef, mode report.RetrieveMethod, file report.FileSpec) (Outcome, error) {
	dest := r.destination(file)

	if err := r.preflight(dest); err != nil {
		return Outcome{Destination: dest}, err
	}

	outcome := Outcome{Destination: dest}

	fetch := func() error {
		switch mode {
		case report.Copy:
			return r.copyFetch(ctx, server, file, dest)
		default:
			outcome.FetchAttempted = true
			return r.streamFetch(ctx, server, file, dest)
		}
	}

	tries, err := retry.Do(ctx, r.MaxTries, r.SleepInterval, fetch)
	outcome.Tries = tries
	if err != nil {
		return outcome, err
	}

	if err := r.postcheck(dest, file); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// destination computes output_dir / subdirectory? / relative_path.
func (r *Retriever) destination(file report.FileSpec) string {
	if file.Subdirectory != nil && *file.Subdirectory != "" {
		return filepath.Join(r.OutputDir, *file.Subdirectory, file.RelativePath)
	}
	return filepath.Join(r.OutputDir, file.RelativePath)
}

// preflight enforces the overwrite policy, then ensures the destination's
// parent directory exists and is writable.
func (r *Retriever) preflight(dest string) error {
	if !r.DryRun {
		if _, err := os.Stat(dest); err == nil {
			if !r.ForceOverwrite {
				return yokerr.NewFileExists(dest)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return yokerr.NewFileError(fmt.Sprintf("cannot stat %s", dest), err)
		}
	}

	if r.DryRun {
		return nil
	}

	if err := fsutil.EnsureBasedir(filepath.Dir(dest)); err != nil {
		return yokerr.NewFileError(fmt.Sprintf("cannot create directory for %s", dest), err)
	}
	return nil
}

// copyFetch issues the server-side direct-copy request. The server writes
// straight to dest; the client never sees the bytes.
func (r *Retriever) copyFetch(ctx context.Context, server report.ServerRef, file report.FileSpec, dest string) error {
	u := fmt.Sprintf("http://%s/RETRIEVE", server.Host)

	if r.DryRun {
		log.Debug(log.DebugMessage{Operation: "copy-fetch", Detail: fmt.Sprintf("dry run: would fetch %s -> %s", u, dest)})
		return nil
	}
	q := url.Values{}
	q.Set("file_id", file.NGASFileID)
	q.Set("file_version", fmt.Sprintf("%d", file.Version))
	q.Set("processing", directCopyPlugin)
	q.Set("processingPars", "outfile="+dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return yokerr.NewNGASServiceError(u, 0, "cannot build request", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return classifyTransportError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ngasErrorFromBody(u, resp)
	}
	return nil
}

// streamFetch drains the response body into dest in fixed chunkSize reads,
// writing exactly what the HTTP layer yields rather than re-buffering.
func (r *Retriever) streamFetch(ctx context.Context, server report.ServerRef, file report.FileSpec, dest string) error {
	u := fmt.Sprintf("http://%s/RETRIEVE", server.Host)
	q := url.Values{}
	q.Set("file_id", file.NGASFileID)
	q.Set("file_version", fmt.Sprintf("%d", file.Version))

	if r.DryRun {
		log.Debug(log.DebugMessage{Operation: "stream-fetch", Detail: fmt.Sprintf("dry run: would fetch %s -> %s", u, dest)})
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return yokerr.NewNGASServiceError(u, 0, "cannot build request", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return classifyTransportError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ngasErrorFromBody(u, resp)
	}

	f, err := os.Create(dest)
	if err != nil {
		return yokerr.NewFileError(fmt.Sprintf("cannot create %s", dest), err)
	}
	defer f.Close()

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				return yokerr.NewFileError(fmt.Sprintf("cannot write %s", dest), writeErr)
			}
			written += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return yokerr.NewNGASServiceError(u, resp.StatusCode, "error reading response body", readErr)
		}
	}

	if written == 0 {
		return yokerr.NewFileError("not retrieved", nil)
	}
	if written != file.Size {
		return yokerr.NewSizeMismatch(dest, file.Size, written)
	}
	return nil
}

// postcheck confirms the destination exists and matches the expected size.
// It is skipped on dry-run, since no bytes were written.
func (r *Retriever) postcheck(dest string, file report.FileSpec) error {
	if r.DryRun {
		return nil
	}
	info, err := os.Stat(dest)
	if err != nil {
		return yokerr.NewNGASServiceError(dest, 0, "file not retrieved", err)
	}
	if info.Size() != file.Size {
		return yokerr.NewSizeMismatch(dest, file.Size, info.Size())
	}
	return nil
}

func classifyTransportError(u string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return yokerr.NewNGASServiceTimeout(err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return yokerr.NewNGASServiceTimeout(err)
	}
	return yokerr.NewNGASServiceError(u, 0, "connection failed", err)
}

// ngasErrorFromBody reads a non-200 response body as NgamsStatus XML and
// surfaces its Message attribute, falling back to a generic message if the
// body doesn't parse.
func ngasErrorFromBody(u string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var status ngamsStatus
	message := ""
	if xml.Unmarshal(body, &status) == nil {
		message = status.Message
	}
	if message == "" {
		message = "bad status code"
	}
	return yokerr.NewNGASServiceError(u, resp.StatusCode, message, nil)
}
