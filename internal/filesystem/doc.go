/*
Package filesystem wraps os.Stat and os.Open with retry logic for NFS stale
file handle errors.

Media libraries are often mounted over NFS. A source file that is replaced on
the server while the service holds a cached handle fails with ESTALE until the
client revalidates, which usually takes one or two attempts.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}

# Retry Behavior

Only ESTALE (errno 116 on Linux) triggers a retry. Every other error is
returned at once. The defaults are:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Backoff doubles after each attempt up to MaxBackoff. Each stale error, each
recovery and each final failure is counted in
auto_thumbnail_filesystem_retries_total.
*/
package filesystem
