package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dchunk.yaml")
	if err := os.WriteFile(cfg, []byte("crypto:\n  rsa_bits: 1024\nchunk:\n  size: 1024\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return &cli{t: t, dir: dir, config: cfg}
}

func (c *cli) path(name string) string { return filepath.Join(c.dir, name) }

// run executes the CLI and fails the test unless it exits with want.
func (c *cli) run(want int, args ...string) string {
	c.t.Helper()
	var out, errOut bytes.Buffer
	code := run(append([]string{"--config", c.config}, args...), &out, &errOut)
	if code != want {
		c.t.Fatalf("%v: exit %d want %d\nstderr: %s", args, code, want, errOut.String())
	}
	return out.String()
}

func (c *cli) writeFile(name string, b []byte) string {
	c.t.Helper()
	p := c.path(name)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		c.t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func (c *cli) readFile(name string) []byte {
	c.t.Helper()
	b, err := os.ReadFile(c.path(name))
	if err != nil {
		c.t.Fatalf("ReadFile: %v", err)
	}
	return b
}

func TestCLI_SealOpenInspect(t *testing.T) {
	c := newCLI(t)
	listID := strings.TrimSpace(c.run(0, "keygen", "--out", c.path("id.key"), "--public", c.path("id.pub")))
	if listID == "" {
		t.Fatalf("keygen printed no list id")
	}
	payload := c.writeFile("payload.txt", []byte("hello chunk"))

	c.run(0, "seal", "--key-file", c.path("id.key"), "--id", "doc", "--out", c.path("doc.chunk"), payload)
	got := c.run(0, "open", "--id", "doc", c.path("doc.chunk"))
	if got != "hello chunk" {
		t.Fatalf("open: got %q", got)
	}

	desc := c.run(0, "inspect", c.path("doc.chunk"))
	for _, want := range []string{"version: 1", "content_id: z", "sign_mode: EmbeddedKey", "type: PublicKey", "payload_bytes: 11"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("inspect output lacks %q:\n%s", want, desc)
		}
	}

	// Tampering breaks the signature.
	b := c.readFile("doc.chunk")
	b[len(b)-1] ^= 1
	c.writeFile("bad.chunk", b)
	c.run(1, "open", "--id", "doc", c.path("bad.chunk"))

	// An unsigned chunk fails when a trusted key is given.
	c.run(0, "seal", "--id", "doc", "--out", c.path("plain.chunk"), payload)
	c.run(1, "open", "--id", "doc", "--pub", c.path("id.pub"), c.path("plain.chunk"))
	if got := c.run(0, "open", "--id", "doc", c.path("plain.chunk")); got != "hello chunk" {
		t.Fatalf("open unsigned: got %q", got)
	}
}

func TestCLI_EnvelopeAndSymmetric(t *testing.T) {
	c := newCLI(t)
	c.run(0, "keygen", "--out", c.path("rcpt.key"), "--public", c.path("rcpt.pub"))
	c.run(0, "keygen", "--symmetric", "--out", c.path("sym.key"))
	payload := c.writeFile("secret.txt", []byte("top secret"))

	c.run(0, "seal", "--id", "mail", "--encrypt-to", c.path("rcpt.pub"), "--out", c.path("mail.chunk"), payload)
	if got := c.run(0, "open", "--id", "mail", "--key-file", c.path("rcpt.key"), c.path("mail.chunk")); got != "top secret" {
		t.Fatalf("open envelope: got %q", got)
	}

	c.run(0, "seal", "--id", "sym", "--sym-key", c.path("sym.key"), "--out", c.path("sym.chunk"), payload)
	if got := c.run(0, "open", "--id", "sym", "--sym-key", c.path("sym.key"), c.path("sym.chunk")); got != "top secret" {
		t.Fatalf("open symmetric: got %q", got)
	}
}

func TestCLI_SplitJoinListSigned(t *testing.T) {
	c := newCLI(t)
	c.run(0, "keygen", "--out", c.path("list.key"), "--public", c.path("list.pub"))
	payload := bytes.Repeat([]byte("0123456789abcdef"), 300)
	in := c.writeFile("big.bin", payload)
	chunks := c.path("chunks")

	top := strings.TrimSpace(c.run(0, "split", "--dir", chunks, "--mode", "list", "--key-file", c.path("list.key"), "--chunk-size", "600", in))
	entries, err := os.ReadDir(chunks)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("split wrote %d chunks", len(entries))
	}

	got := c.run(0, "join", "--dir", chunks, "--pub", c.path("list.pub"), top)
	if got != string(payload) {
		t.Fatalf("join: payload mismatch (%d bytes, want %d)", len(got), len(payload))
	}

	// Without the list key the signatures cannot be checked.
	c.run(1, "join", "--dir", chunks, "--id", "someone-else", top)
}

func TestCLI_UsageErrors(t *testing.T) {
	c := newCLI(t)
	c.run(2, "seal")
	c.run(2, "keygen")
	c.run(2, "seal", "--mode", "embedded", "--id", "x", c.path("missing"))
	c.run(2, "inspect", "--no-such-flag", "x")
	c.run(2, "split", c.path("missing"))
	c.run(1, "inspect", c.path("missing"))
}

func TestCLI_KeyStore(t *testing.T) {
	c := newCLI(t)
	store := c.path("keystore")
	listID := strings.TrimSpace(c.run(0, "--keystore", store, "keygen", "--name", "alice"))
	c.run(0, "--keystore", store, "keygen", "--name", "team", "--symmetric")
	c.run(1, "--keystore", store, "keygen", "--name", "alice")
	c.run(2, "--keystore", store, "keygen", "--name", "alice", "--out", c.path("x.key"))

	if got := c.run(0, "--keystore", store, "keys"); got != "alice\tidentity\nteam\tsymmetric\n" {
		t.Fatalf("keys: got %q", got)
	}

	payload := c.writeFile("entry.txt", []byte("list entry"))
	c.run(0, "--keystore", store, "seal", "--signer", "alice", "--mode", "list", "--out", c.path("entry.chunk"), payload)
	if got := c.run(0, "--keystore", store, "open", "--trust", "alice", c.path("entry.chunk")); got != "list entry" {
		t.Fatalf("open: got %q", got)
	}
	if got := c.run(0, "--keystore", store, "open", "--trust", "alice", "--id", listID, c.path("entry.chunk")); got != "list entry" {
		t.Fatalf("open with explicit list id: got %q", got)
	}
}
