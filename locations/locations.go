// Package locations resolves a product locator or a pre-fetched report file
// into a report.FilesReport, then applies the SDM filter and the
// retrieve-method annotation, exactly as the archive's LocationsReport did.
package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/nrao/yoink/report"
	"github.com/nrao/yoink/settings"
	"github.com/nrao/yoink/yokerr"
)

// serviceTimeout bounds the single HTTP GET issued against the locator
// service; streaming downloads, by contrast, carry no such bound (see
// retriever package).
const serviceTimeout = 30 * time.Second

// FromFile reads a locations report from a JSON file on disk.
func FromFile(path string) (report.FilesReport, error) {
	var fr report.FilesReport

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fr, yokerr.NewFileError(fmt.Sprintf("location file %s not found", path), err)
		}
		return fr, yokerr.NewFileError(fmt.Sprintf("cannot read location file %s", path), err)
	}

	if err := json.Unmarshal(data, &fr); err != nil {
		return fr, yokerr.NewFileError(fmt.Sprintf("location file %s is not valid JSON", path), err)
	}

	if err := validateFilesReport(fr); err != nil {
		return fr, err
	}
	return fr, nil
}

// FromService fetches a locations report from the archive location service
// for the given product locator.
func FromService(ctx context.Context, s *settings.Settings, productLocator string) (report.FilesReport, error) {
	var fr report.FilesReport

	ctx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	u, err := url.Parse(s.LocatorServiceURL)
	if err != nil {
		return fr, yokerr.NewLocationServiceError("invalid locator service URL", err)
	}
	q := u.Query()
	q.Set("locator", productLocator)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fr, yokerr.NewLocationServiceError("cannot build locator service request", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fr, yokerr.NewLocationServiceTimeout(err)
		}
		if isTooManyRedirects(err) {
			return fr, yokerr.NewLocationServiceRedirects(err)
		}
		return fr, yokerr.NewLocationServiceError("locator service request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fr, yokerr.NewLocationServiceError("cannot read locator service response", err)
		}
		if err := json.Unmarshal(body, &fr); err != nil {
			return fr, yokerr.NewLocationServiceError("locator service returned invalid JSON", err)
		}
	case http.StatusNotFound:
		return fr, yokerr.NewNoLocator(fmt.Sprintf("cannot find locator %q", productLocator))
	default:
		return fr, yokerr.NewLocationServiceError(
			fmt.Sprintf("locator service returned %d", resp.StatusCode), nil)
	}

	if err := validateFilesReport(fr); err != nil {
		return fr, err
	}
	return fr, nil
}

func isTooManyRedirects(err error) bool {
	return strings.Contains(err.Error(), "stopped after") && strings.Contains(err.Error(), "redirect")
}

// ApplySDMFilter retains only files whose relative path ends in .xml or
// .bin, silently dropping the rest. No-op if sdmOnly is false.
func ApplySDMFilter(fr report.FilesReport, sdmOnly bool) report.FilesReport {
	if !sdmOnly {
		return fr
	}
	kept := make([]report.FileSpec, 0, len(fr.Files))
	for _, f := range fr.Files {
		if strings.HasSuffix(f.RelativePath, ".xml") || strings.HasSuffix(f.RelativePath, ".bin") {
			kept = append(kept, f)
		}
	}
	return report.FilesReport{Files: kept}
}

// AnnotateRetrieveMethod sets each file's server.RetrieveMethod: COPY iff
// the server's cluster is DSOC and its location matches the execution
// site, STREAM otherwise. Direct copy is only viable when the caller runs
// co-located with the data.
func AnnotateRetrieveMethod(fr report.FilesReport, executionSite string) report.FilesReport {
	files := make([]report.FileSpec, len(fr.Files))
	for i, f := range fr.Files {
		if f.Server.Cluster == report.DSOCCluster && f.Server.Location == executionSite {
			f.Server.RetrieveMethod = report.Copy
		} else {
			f.Server.RetrieveMethod = report.Stream
		}
		files[i] = f
	}
	return report.FilesReport{Files: files}
}

// Resolve is the single entry point: load the raw report from whichever
// source the request names, apply the SDM filter, then annotate the
// retrieve method.
func Resolve(ctx context.Context, s *settings.Settings, productLocator, locationFilePath string, sdmOnly bool) (report.FilesReport, error) {
	var (
		fr  report.FilesReport
		err error
	)

	if locationFilePath != "" {
		fr, err = FromFile(locationFilePath)
	} else {
		fr, err = FromService(ctx, s, productLocator)
	}
	if err != nil {
		return report.FilesReport{}, err
	}

	fr = ApplySDMFilter(fr, sdmOnly)
	fr = AnnotateRetrieveMethod(fr, s.ExecutionSite)
	return fr, nil
}

// validateFilesReport enforces the FILE_SPEC_KEYS invariant: every
// FileSpec must carry its required attributes, and its server reference
// must be fully populated. RelativePath, NGASFileID and the server host
// are the attributes that can't sensibly default to a zero value.
func validateFilesReport(fr report.FilesReport) error {
	for i, f := range fr.Files {
		if f.NGASFileID == "" {
			return yokerr.NewMissingSetting(fmt.Sprintf("files[%d]: missing ngas_file_id", i))
		}
		if f.RelativePath == "" {
			return yokerr.NewMissingSetting(fmt.Sprintf("files[%d]: missing relative_path", i))
		}
		if f.Server.Host == "" {
			return yokerr.NewMissingSetting(fmt.Sprintf("files[%d]: missing server", i))
		}
		if f.Server.Location == "" {
			return yokerr.NewMissingSetting(fmt.Sprintf("files[%d]: missing server.location", i))
		}
		if f.Server.Cluster == "" {
			return yokerr.NewMissingSetting(fmt.Sprintf("files[%d]: missing server.cluster", i))
		}
	}
	return nil
}
