package inference

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	modelFileName   = "model.onnx"
	classesFileName = "index_to_class.json"
)

// RegistryConfig identifies the model artifacts on an MLflow tracking server.
type RegistryConfig struct {
	TrackingURI string
	ModelURI    string
	RunID       string
}

// LoadLocal builds an engine from artifacts bundled with the deployment:
// model.onnx and index_to_class.json inside dir.
func LoadLocal(dir string, inputSize int) (*Engine, error) {
	classes, err := LoadClassMapping(filepath.Join(dir, classesFileName))
	if err != nil {
		return nil, err
	}
	return NewEngine(filepath.Join(dir, modelFileName), classes, inputSize)
}

// LoadFromRegistry downloads the model artifacts from the MLflow tracking
// server into dir and then loads them the same way as local artifacts. Any
// failure here aborts startup; there is no runtime fallback between sources.
func LoadFromRegistry(reg RegistryConfig, dir string, inputSize int) (*Engine, error) {
	if reg.TrackingURI == "" || reg.RunID == "" {
		return nil, fmt.Errorf("registry model source requires a tracking URI and a run id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	for _, name := range []string{modelFileName, classesFileName} {
		if err := fetchArtifact(client, reg, name, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
	}

	return LoadLocal(dir, inputSize)
}

// fetchArtifact downloads one artifact through the tracking server's
// get-artifact endpoint, which is what the MLflow client uses underneath.
func fetchArtifact(client *http.Client, reg RegistryConfig, name, dest string) error {
	artifactPath := name
	if reg.ModelURI != "" {
		artifactPath = path.Join(reg.ModelURI, name)
	}

	endpoint := fmt.Sprintf("%s/get-artifact?path=%s&run_id=%s",
		strings.TrimRight(reg.TrackingURI, "/"),
		url.QueryEscape(artifactPath),
		url.QueryEscape(reg.RunID),
	)

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("fetch artifact %s: %w", artifactPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch artifact %s: tracking server answered %s", artifactPath, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
