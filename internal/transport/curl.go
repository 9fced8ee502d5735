package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const tempPattern = "milli-ai-*"

// writeBody fills the payload file. Tests replace it to fail mid-write.
var writeBody = writeAll

// Curl sends requests by running the curl binary.
// The request body is passed through a temporary file, never on the command line.
//
// The only deadline is curl's own --max-time. If the binary ignores it the
// call blocks until ctx is cancelled.
type Curl struct {
	// Bin is the curl executable. Defaults to "curl".
	Bin string
	// TempDir holds payload files. Defaults to os.TempDir().
	TempDir string
}

// NewCurl returns a curl transport using bin, or "curl" when empty.
func NewCurl(bin string) *Curl {
	return &Curl{Bin: bin}
}

// Send implements Transport.
func (c *Curl) Send(ctx context.Context, req Request) (Response, error) {
	path, err := writePayload(c.TempDir, req.Body)
	if err != nil {
		return Response{}, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("path", path).Msg("remove payload file")
		}
	}()

	bin := c.bin()
	args := curlArgs(req, path)
	log.Debug().Str("cmd", bin).Str("url", req.URL).Dur("timeout", req.Timeout).Msg("running curl")

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrNotInvocable, err)
	}
	waitErr := cmd.Wait()
	body := stdout.Bytes()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Response{}, fmt.Errorf("%w: %w", ErrNotInvocable, waitErr)
		}
		detail := string(body)
		if strings.TrimSpace(detail) == "" {
			detail = strings.TrimSpace(stderr.String())
		}
		log.Debug().Int("exit_code", exitErr.ExitCode()).Str("url", req.URL).Msg("curl failed")
		return Response{Body: body}, &CallError{Body: detail}
	}
	return Response{Body: body}, nil
}

// Name identifies the transport in user-facing errors.
func (c *Curl) Name() string {
	return "curl"
}

func (c *Curl) bin() string {
	if c.Bin == "" {
		return "curl"
	}
	return c.Bin
}

func curlArgs(req Request, payloadPath string) []string {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return []string{
		"-sS", "--fail",
		"--max-time", fmt.Sprintf("%.3f", timeout.Seconds()),
		"-H", "Content-Type: application/json",
		"-H", "Authorization: " + bearer(req.APIKey),
		"-X", "POST", req.URL,
		"--data-binary", "@" + payloadPath,
	}
}

// writePayload stores body in a new, uniquely named file and returns its path.
// The file is removed again if any byte cannot be written.
func writePayload(dir string, body []byte) (string, error) {
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	path := f.Name()

	if err := writeBody(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return path, nil
}

func writeAll(w io.Writer, body []byte) error {
	for total := 0; total < len(body); {
		n, err := w.Write(body[total:])
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		total += n
	}
	return nil
}
