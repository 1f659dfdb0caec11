package session

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"go-reveal-quiz/internal/answer"
	"go-reveal-quiz/internal/reveal"
)

// createTestImage creates a simple test image for testing purposes
func createTestImage(width, height int, fillColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fillColor)
		}
	}
	return img
}

func TestNew_NormalizesKey(t *testing.T) {
	img := createTestImage(32, 32, color.RGBA{128, 128, 128, 255})
	s := New(img, "  Mount Fuji ", reveal.ModeBlur, 60, nil)

	if s.Key() != "mount fuji" {
		t.Errorf("expected normalized key 'mount fuji', got %q", s.Key())
	}
	if s.Mode() != reveal.ModeBlur {
		t.Errorf("expected blur mode, got %q", s.Mode())
	}
	if s.TimeLimit() != 60 {
		t.Errorf("expected time limit 60, got %v", s.TimeLimit())
	}
}

func TestProgress(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	s := New(img, "cat", reveal.ModeBlur, 60, nil)

	testCases := []struct {
		name    string
		elapsed float64
		want    float64
	}{
		{"Start", 0, 0},
		{"Half", 30, 0.5},
		{"AtLimit", 60, 1},
		{"BeyondLimit", 120, 1},
		{"Negative", -5, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Progress(tc.elapsed); got != tc.want {
				t.Errorf("Progress(%v) = %v, want %v", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestProgress_NoTimeLimit(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	s := New(img, "cat", reveal.ModeBlur, 0, nil)

	if got := s.Progress(0); got != 1.0 {
		t.Errorf("expected progress 1.0 with no time limit, got %v", got)
	}
}

func TestCurrentView_FullyRevealedAtLimit(t *testing.T) {
	img := createTestImage(48, 48, color.RGBA{200, 50, 50, 255})
	s := New(img, "cat", reveal.ModeZoom, 60, nil)

	view := s.CurrentView(60)
	if view == nil {
		t.Fatal("expected non-nil view")
	}
	if view.Bounds().Dx() != 48 || view.Bounds().Dy() != 48 {
		t.Errorf("expected dimensions preserved, got %v", view.Bounds())
	}

	// At the time limit the view must be the untouched original.
	for y := 0; y < 48; y += 12 {
		for x := 0; x < 48; x += 12 {
			wr, wg, wb, _ := view.At(view.Bounds().Min.X+x, view.Bounds().Min.Y+y).RGBA()
			or, og, ob, _ := img.At(x, y).RGBA()
			if wr != or || wg != og || wb != ob {
				t.Fatalf("pixel (%d,%d) differs from original at full progress", x, y)
			}
		}
	}
}

func TestSubmitGuess(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	synonyms := answer.SynonymSet{"cat": {"cat", "neko"}}
	s := New(img, "Cat", reveal.ModeBlur, 60, synonyms)

	correct, display := s.SubmitGuess(" neko ")
	if !correct {
		t.Error("expected synonym guess to be correct")
	}
	if display != "neko" {
		t.Errorf("expected display answer 'neko', got %q", display)
	}

	correct, _ = s.SubmitGuess("dog")
	if correct {
		t.Error("expected wrong guess to be rejected")
	}
}

func TestOverrideAnswer(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	s := New(img, "img0042", reveal.ModeBlur, 60, nil)

	if correct, _ := s.SubmitGuess("shiba inu"); correct {
		t.Fatal("guess should fail before the override")
	}

	s.OverrideAnswer(" Shiba Inu ")

	if s.Key() != "shiba inu" {
		t.Errorf("expected normalized override key, got %q", s.Key())
	}
	if correct, _ := s.SubmitGuess("shiba inu"); !correct {
		t.Error("guess should succeed after the override")
	}
}

func TestOverrideAnswer_Concurrent(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	s := New(img, "cat", reveal.ModeBlur, 60, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.OverrideAnswer("dog")
				s.SubmitGuess("dog")
				_ = s.Key()
			}
		}()
	}
	wg.Wait()

	if s.Key() != "dog" {
		t.Errorf("expected key 'dog' after overrides, got %q", s.Key())
	}
}

func TestScoreNow(t *testing.T) {
	img := createTestImage(16, 16, color.RGBA{0, 0, 0, 255})
	s := New(img, "cat", reveal.ModeBlur, 60, nil)

	if got := s.ScoreNow(0); got != 100 {
		t.Errorf("expected 100 at start, got %v", got)
	}
	if got := s.ScoreNow(30); got != 50 {
		t.Errorf("expected 50 at half time, got %v", got)
	}
	if got := s.ScoreNow(60); got != 0 {
		t.Errorf("expected 0 at the limit, got %v", got)
	}
}
