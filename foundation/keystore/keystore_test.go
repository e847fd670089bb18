package keystore_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/ysaito/todoapi/foundation/keystore"
)

func TestKeystore(t *testing.T) {
	//setup
	privatePEM, publicPEM := generateKeyPair(t)

	kid := uuid.NewString()
	fsys := fstest.MapFS{
		kid + ".pem": &fstest.MapFile{
			Data: []byte(privatePEM),
		},
	}

	//test
	ks, err := keystore.LoadFromFS(fsys)
	if err != nil {
		t.Fatalf("expected the keys to be loaded: %s", err)
	}

	fetchedPrivate, err := ks.PrivateKey(kid)
	if err != nil {
		t.Fatalf("expected to get back the private pem with id %s: %s", kid, err)
	}
	if fetchedPrivate != privatePEM {
		t.Errorf("privatePEM= %s, got %s", privatePEM, fetchedPrivate)
	}

	fetchedPublic, err := ks.PublicKey(kid)
	if err != nil {
		t.Fatalf("expected to fetch public key: %s", err)
	}
	if fetchedPublic != publicPEM {
		t.Errorf("public= %s, got %s", publicPEM, fetchedPublic)
	}

	//unknown kid
	if _, err := ks.PrivateKey("unknown"); err == nil {
		t.Fatal("expected an unknown kid to be rejected")
	}
}

func TestKeystoreSkipsNonPemFiles(t *testing.T) {
	privatePEM, _ := generateKeyPair(t)

	fsys := fstest.MapFS{
		"a.pem":      &fstest.MapFile{Data: []byte(privatePEM)},
		"readme.txt": &fstest.MapFile{Data: []byte("not a key")},
	}

	ks, err := keystore.LoadFromFS(fsys)
	if err != nil {
		t.Fatalf("expected the non pem file to be skipped: %s", err)
	}

	if _, err := ks.PrivateKey("a"); err != nil {
		t.Fatalf("expected the pem file to be loaded: %s", err)
	}
	if _, err := ks.PrivateKey("readme"); err == nil {
		t.Fatal("expected the txt file to not be loaded")
	}
}

func generateKeyPair(t *testing.T) (string, string) {
	t.Helper()

	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("expected to generate a private key: %s", err)
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(private)
	if err != nil {
		t.Fatalf("expected to marshal key into pkcs8 format: %s", err)
	}

	var privatePEM strings.Builder
	if err := pem.Encode(&privatePEM, &pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}); err != nil {
		t.Fatalf("expected to encode private key: %s", err)
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		t.Fatalf("expected to marshal public key into PKIX format: %s", err)
	}

	var publicPEM strings.Builder
	if err := pem.Encode(&publicPEM, &pem.Block{Type: "PUBLIC KEY", Bytes: publicBytes}); err != nil {
		t.Fatalf("expected to encode public key: %s", err)
	}

	return privatePEM.String(), publicPEM.String()
}
