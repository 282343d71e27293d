package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// runOCR renders each page to a PNG with pdftoppm and runs Tesseract over
// the images, concatenating per-image output with newlines.
// Requires poppler-utils and tesseract-ocr on the worker host.
func (e *Extractor) runOCR(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", fmt.Errorf("pdftoppm not available (install poppler-utils): %w", err)
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "statement-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", strconv.Itoa(e.dpi), "-png", pdfPath, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (output: %s)", err, out)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temp dir: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".png") {
			imageFiles = append(imageFiles, filepath.Join(tmpDir, entry.Name()))
		}
	}
	sort.Strings(imageFiles)

	texts := make([]string, 0, len(imageFiles))
	for _, imgFile := range imageFiles {
		outBase := strings.TrimSuffix(imgFile, ".png")
		cmd := exec.CommandContext(ctx, "tesseract", imgFile, outBase, "-l", e.language)
		if out, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("tesseract failed for %s: %w (output: %s)", filepath.Base(imgFile), err, out)
		}

		pageText, err := os.ReadFile(outBase + ".txt")
		if err != nil {
			return "", fmt.Errorf("failed to read ocr output: %w", err)
		}
		texts = append(texts, string(pageText))
	}

	return strings.Join(texts, "\n"), nil
}
