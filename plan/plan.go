// Package plan builds a retrieval Plan from a ServersReport: per server,
// allocate threadsPerHost buckets and distribute that server's files
// round-robin across them, preserving listing order within each bucket.
package plan

import "github.com/nrao/yoink/report"

// Build groups sr's files into threadsPerHost buckets per server (file i
// goes to bucket i % threadsPerHost), drops empty buckets, and flattens
// across servers. Round-robin yields near-equal byte counts on typical
// inputs without size-aware bin-packing; distinct servers get independent
// bucket sets so cross-server parallelism is never constrained by any
// single server's fan-out.
func Build(sr report.ServersReport, threadsPerHost int) report.Plan {
	if threadsPerHost < 1 {
		threadsPerHost = 1
	}

	var result report.Plan
	for host, sf := range sr {
		buckets := make([]report.Bucket, threadsPerHost)
		for i := range buckets {
			buckets[i] = report.Bucket{ServerHost: host, RetrieveMethod: sf.RetrieveMethod}
		}

		for i, f := range sf.Files {
			idx := i % threadsPerHost
			buckets[idx].Files = append(buckets[idx].Files, f)
		}

		for _, b := range buckets {
			if len(b.Files) > 0 {
				result = append(result, b)
			}
		}
	}
	return result
}
