package mux

import "testing"

func TestLinkWindowDoesNotCopyAlerts(t *testing.T) {
	srv := NewServer(0)
	a, err := srv.NewSession("a", 80, 24, "sh")
	if err != nil {
		t.Fatal(err)
	}
	b, err := srv.NewSession("b", 80, 24, "sh")
	if err != nil {
		t.Fatal(err)
	}

	srcWl := a.Winlinks[0]
	srcWl.Alerts = AlertBell | AlertActivity

	dstWl, err := srv.LinkWindow(srcWl, b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dstWl.Alerts != 0 {
		t.Fatalf("new winlink inherited alerts: %v", dstWl.Alerts)
	}

	win := srv.Windows[srcWl.Window]
	if win.RefCount != 2 {
		t.Fatalf("refcount = %d, want 2", win.RefCount)
	}

	if err := srv.UnlinkWindow(srcWl); err != nil {
		t.Fatal(err)
	}
	if _, ok := srv.Windows[win.ID]; !ok {
		t.Fatalf("window destroyed while still referenced by dstWl")
	}
	if err := srv.UnlinkWindow(dstWl); err != nil {
		t.Fatal(err)
	}
	if _, ok := srv.Windows[win.ID]; ok {
		t.Fatalf("window survived after refcount reached zero")
	}
}

func TestNewWindowIndexCollision(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 80, 24, "sh")

	if _, err := srv.NewWindow(sess, -1, "sh", 0, CollisionFail); err == nil {
		t.Fatalf("expected collision at index 0 to fail")
	}

	wl, err := srv.NewWindow(sess, -1, "sh", 0, CollisionShift)
	if err != nil {
		t.Fatal(err)
	}
	if wl.Index != 0 {
		t.Fatalf("shifted window index = %d, want 0", wl.Index)
	}
	if _, ok := sess.Winlinks[1]; !ok {
		t.Fatalf("original window at index 0 was not shifted to index 1")
	}
}

func TestSelectWindowPushesLastUsed(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 80, 24, "sh")
	if _, err := srv.NewWindow(sess, 0, "sh", -1, CollisionFail); err != nil {
		t.Fatal(err)
	}

	if err := srv.SelectWindow(sess, 1); err != nil {
		t.Fatal(err)
	}
	if sess.Current != 1 {
		t.Fatalf("current = %d, want 1", sess.Current)
	}
	if got := sess.popLastUsed(); got != 0 {
		t.Fatalf("last used = %d, want 0", got)
	}
}
