package sugoi

import (
	"errors"
	"strings"
	"testing"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

func TestClassifyUploadResponseSuccess(t *testing.T) {
	body := `<html><body>
<form action="upload.php"><input type="hidden" name="groupid" value="56789" /></form>
</body></html>`

	result, err := ClassifyUploadResponse(body)
	if err != nil {
		t.Fatalf("ClassifyUploadResponse failed: %v", err)
	}
	if result.GroupID != "56789" {
		t.Errorf("Expected group id 56789, got %q", result.GroupID)
	}
}

// The private-torrent warning page still means the upload went through;
// the site just refuses the foreign torrent file.
func TestClassifyUploadResponsePrivateWarning(t *testing.T) {
	body := `<html><body>
<p>Your torrent has been uploaded, but you must download from here: "https://sugoimusic.me/torrents.php?id=4242" to seed.</p>
</body></html>`

	result, err := ClassifyUploadResponse(body)
	if err != nil {
		t.Fatalf("ClassifyUploadResponse failed: %v", err)
	}
	if result.GroupID != "4242" {
		t.Errorf("Expected group id 4242, got %q", result.GroupID)
	}
}

func TestClassifyUploadResponseStyledError(t *testing.T) {
	body := `<html><body>
<p style="color: red;text-align:center;">
The exact same torrent file already exists on the site!
</p>
</body></html>`

	_, err := ClassifyUploadResponse(body)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected the site message in the error, got %v", err)
	}
}

func TestClassifyUploadResponseInvalidError(t *testing.T) {
	body := `<html><body><p>Invalid form field: year</p></body></html>`

	_, err := ClassifyUploadResponse(body)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "Invalid form field: year") {
		t.Errorf("Expected the invalid-field message, got %v", err)
	}
}

func TestClassifyUploadResponseUnknownShape(t *testing.T) {
	_, err := ClassifyUploadResponse(`<html><body><h1>504 Gateway Time-out</h1></body></html>`)
	if err == nil {
		t.Fatal("Expected an error")
	}

	var perr *models.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ProtocolError, got %T", err)
	}
}
