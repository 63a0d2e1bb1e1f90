package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// maxDownload caps any single release asset.
const maxDownload = 256 << 20

// Stage names a step of Update.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

// UpdateInput names the running version and, optionally, a release tag to
// install instead of the latest.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported as each stage starts.
type UpdateProgress struct {
	Stage   Stage
	Message string
}

// IsDevBuild reports whether v is the placeholder version of a build made
// without release ldflags.
func IsDevBuild(v string) bool {
	return v == "" || v == "(devel)" || v == "dev"
}

// releaseAsset is the archive built for one platform.
type releaseAsset struct {
	name string
	zip  bool
}

// binary is the executable's name inside the archive.
func (a releaseAsset) binary() string {
	if a.zip {
		return binaryName + ".exe"
	}
	return binaryName
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetFor(goos, goarch string) (releaseAsset, error) {
	if goos == "darwin" {
		return releaseAsset{name: binaryName + "_Darwin_all.tar.gz"}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return releaseAsset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return releaseAsset{name: fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch)}, nil
	case "windows":
		return releaseAsset{name: fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), zip: true}, nil
	default:
		return releaseAsset{}, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// Update downloads, verifies and installs a release over the running
// binary. report may be nil.
func (c *Checker) Update(ctx context.Context, in *UpdateInput, report func(UpdateProgress)) error {
	if report == nil {
		report = func(UpdateProgress) {}
	}
	if IsDevBuild(in.CurrentVersion) {
		return ErrDevBuild
	}

	tag := in.TargetVersion
	if tag == "" {
		report(UpdateProgress{StageCheck, "Checking for latest version..."})
		res, err := c.Check(ctx, &CheckInput{Version: in.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	report(UpdateProgress{StageDownload, fmt.Sprintf("Downloading %s...", tag)})
	sums, _, err := c.fetch(ctx, tag, "checksums.txt")
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	archive, digest, err := c.fetch(ctx, tag, asset.name)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report(UpdateProgress{StageVerify, "Verifying checksum..."})
	want, err := checksumFor(sums, asset.name)
	if err != nil {
		return err
	}
	if !strings.EqualFold(want, digest) {
		return fmt.Errorf("%w: %s has sha256 %s, release lists %s", ErrChecksum, asset.name, digest, want)
	}

	report(UpdateProgress{StageExtract, "Extracting binary..."})
	bin, err := unpack(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report(UpdateProgress{StageApply, "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report(UpdateProgress{StageDone, fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// fetch downloads one release file and returns it with its hex sha256.
func (c *Checker) fetch(ctx context.Context, tag, file string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", c.downloadBaseURL, c.owner, c.repo, tag, file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, file)
	}

	h := sha256.New()
	data, err := io.ReadAll(io.TeeReader(io.LimitReader(resp.Body, maxDownload+1), h))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxDownload {
		return nil, "", fmt.Errorf("%s is larger than %d bytes", file, maxDownload)
	}
	return data, hex.EncodeToString(h.Sum(nil)), nil
}

// checksumFor finds name in sha256sum output. Names may carry the
// binary-mode '*' marker.
func checksumFor(sums []byte, name string) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(sums))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == name {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("no checksum for %s in checksums.txt", name)
}

func unpack(archive []byte, asset releaseAsset) ([]byte, error) {
	want := asset.binary()
	if asset.zip {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		for _, f := range zr.File {
			if path.Base(f.Name) != want || f.FileInfo().IsDir() {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
		return nil, fmt.Errorf("%s not in archive", want)
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not in archive", want)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == want {
			return io.ReadAll(tr)
		}
	}
}

// replaceFile atomically swaps target's contents for data, keeping its
// permissions. The new file is staged in target's directory so the
// final rename does not cross filesystems.
func replaceFile(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("stage update: %w", err)
	}
	staged := tmp.Name()
	defer func() { _ = os.Remove(staged) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", staged, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", staged, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(staged, target)
}
