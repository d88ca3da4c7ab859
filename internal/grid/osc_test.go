package grid

import "testing"

func TestOSC52ClipboardDecode(t *testing.T) {
	w := NewWriter(5, 10, 0)

	// "52;c;aGVsbG8=" -> selection "c", base64 for "hello".
	w.handleOSC([]byte("52;c;aGVsbG8="))

	data, ok := w.TakeClipboard()
	if !ok {
		t.Fatal("expected a pending clipboard payload")
	}
	if string(data) != "hello" {
		t.Errorf("clipboard = %q, want %q", data, "hello")
	}

	if _, ok := w.TakeClipboard(); ok {
		t.Error("TakeClipboard should drain the pending payload")
	}
}

func TestOSC52QueryFormIsIgnored(t *testing.T) {
	w := NewWriter(5, 10, 0)
	w.handleOSC([]byte("52;c;?"))

	if _, ok := w.TakeClipboard(); ok {
		t.Error("a clipboard query (?) should not deposit a payload")
	}
}

func TestOSC52MalformedBase64IsIgnored(t *testing.T) {
	w := NewWriter(5, 10, 0)
	w.handleOSC([]byte("52;c;not-valid-base64!!"))

	if _, ok := w.TakeClipboard(); ok {
		t.Error("malformed base64 should not deposit a payload")
	}
}

func TestOSCTitleStillWorks(t *testing.T) {
	w := NewWriter(5, 10, 0)
	w.handleOSC([]byte("2;my title"))

	if w.Screen().Title != "my title" {
		t.Errorf("title = %q, want %q", w.Screen().Title, "my title")
	}
}
