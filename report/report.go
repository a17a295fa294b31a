// Package report holds the archive retrieval data model: the locations
// report returned by the archive location service, the per-server grouping
// derived from it, and the bucketed retrieval plan built on top of that.
package report

// RetrieveMethod is the server-side fetch strategy for a file: either a
// streamed HTTP GET of the bytes, or a server-side direct-copy plugin that
// writes straight to the destination without the client seeing the bytes.
type RetrieveMethod string

const (
	Stream RetrieveMethod = "STREAM"
	Copy   RetrieveMethod = "COPY"
)

// DSOCCluster is the only NGAS cluster tag that is ever eligible for direct
// copy, and only when the execution site matches the server's location.
const DSOCCluster = "DSOC"

// ServerRef identifies the storage server that holds a file, and, once the
// locations report has been annotated, the method that will be used to
// fetch it.
type ServerRef struct {
	Host           string `json:"server"`
	Location       string `json:"location"`
	Cluster        string `json:"cluster"`
	RetrieveMethod RetrieveMethod `json:"retrieve_method,omitempty"`
}

// FileSpec is the archive's unit of retrieval.
type FileSpec struct {
	NGASFileID   string    `json:"ngas_file_id"`
	Subdirectory *string   `json:"subdirectory"`
	RelativePath string    `json:"relative_path"`
	Checksum     string    `json:"checksum"`
	ChecksumType string    `json:"checksum_type"`
	Version      int       `json:"version"`
	Size         int64     `json:"size"`
	Server       ServerRef `json:"server"`
}

// FilesReport is the ordered sequence of files returned for a product.
type FilesReport struct {
	Files []FileSpec `json:"files"`
}

// ServerFiles is one server's slice of a FilesReport, plus the server
// metadata that would otherwise be repeated on every file.
type ServerFiles struct {
	Location       string
	Cluster        string
	RetrieveMethod RetrieveMethod
	Files          []FileSpec
}

// ServersReport groups a FilesReport by server host. It is a pure
// projection: the sum of len(Files) across all entries always equals
// len(FilesReport.Files).
type ServersReport map[string]*ServerFiles

// ToServersReport groups fr by server host, preserving per-server file
// order.
func ToServersReport(fr FilesReport) ServersReport {
	result := make(ServersReport)
	for _, f := range fr.Files {
		host := f.Server.Host
		sf, ok := result[host]
		if !ok {
			sf = &ServerFiles{
				Location:       f.Server.Location,
				Cluster:        f.Server.Cluster,
				RetrieveMethod: f.Server.RetrieveMethod,
			}
			result[host] = sf
		}
		sf.Files = append(sf.Files, f)
	}
	return result
}

// Bucket is a set of files from a single server assigned to one worker.
type Bucket struct {
	ServerHost     string
	RetrieveMethod RetrieveMethod
	Files          []FileSpec
}

// Plan is the ordered sequence of buckets the parallel fetcher will
// execute. Order across servers is insignificant and not fixed: plan.Build
// visits servers in map iteration order.
type Plan []Bucket

// TotalFiles returns the number of files across all buckets in the plan.
func (p Plan) TotalFiles() int {
	n := 0
	for _, b := range p {
		n += len(b.Files)
	}
	return n
}
