package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
)

// ErrSceneImageMismatch is a programming-contract violation: the
// pipeline must hand the renderer exactly one image per scene.
var ErrSceneImageMismatch = errors.New("scene and image counts do not match")

// ComicRenderer renders a story plus its scene images into PDF bytes.
type ComicRenderer interface {
	Render(story models.Story, images [][]byte) ([]byte, error)
}

type pdfRenderer struct{}

// NewComicRenderer creates the fpdf-backed renderer.
func NewComicRenderer() ComicRenderer {
	return pdfRenderer{}
}

// Render lays out a cover page, a character page and one page per
// scene with its image embedded.
func (pdfRenderer) Render(story models.Story, images [][]byte) ([]byte, error) {
	if len(images) != len(story.Scenes) {
		return nil, fmt.Errorf("%w: %d scenes, %d images", ErrSceneImageMismatch, len(story.Scenes), len(images))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	// Cover page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 20, story.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("A %s Adventure", story.Genre), "", 1, "C", false, 0, "")
	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 8, story.Setting, "", "L", false)

	// Character page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 15, "Main Character", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	char := story.MainCharacter
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Name: %s\nAppearance: %s\nPersonality: %s\nSpecial: %s",
		char.Name, char.Appearance, char.Personality, char.Special,
	), "", "L", false)

	// One page per scene
	for i, scene := range story.Scenes {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, fmt.Sprintf("Scene %d", i+1), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 8, scene.Description, "", "L", false)

		imgName := fmt.Sprintf("scene_%d", i+1)
		pdf.RegisterImageOptionsReader(imgName,
			fpdf.ImageOptions{ImageType: "PNG"},
			bytes.NewReader(images[i]))
		pdf.ImageOptions(imgName, 20, pdf.GetY()+5, 170, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render comic PDF: %w", err)
	}
	return buf.Bytes(), nil
}
