package mediagen

import (
	"errors"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	if err := ValidatePrompt("a red cube"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePrompt(""); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestValidateInputImage(t *testing.T) {
	valid := InputImage{Data: []byte("bytes"), MIMEType: "image/png"}
	if err := ValidateInputImage(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateInputImage(InputImage{}); !errors.Is(err, ErrEmptyImageData) {
		t.Errorf("expected ErrEmptyImageData, got %v", err)
	}

	noMIME := InputImage{Data: []byte("bytes")}
	if err := ValidateInputImage(noMIME); !errors.Is(err, ErrInvalidMIMEType) {
		t.Errorf("expected ErrInvalidMIMEType, got %v", err)
	}

	badMIME := InputImage{Data: []byte("bytes"), MIMEType: "application/pdf"}
	if err := ValidateInputImage(badMIME); !errors.Is(err, ErrInvalidMIMEType) {
		t.Errorf("expected ErrInvalidMIMEType, got %v", err)
	}

	huge := InputImage{Data: make([]byte, MaxImageSize+1), MIMEType: "image/png"}
	if err := ValidateInputImage(huge); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}
