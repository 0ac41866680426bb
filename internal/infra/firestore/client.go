// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Credentials selects how the admin SDK authenticates. At most one of File
// and Secret is used; both empty means Application Default Credentials.
type Credentials struct {
	File string
	// Secret is a Secret Manager version name whose payload is the service
	// account JSON.
	Secret string
}

// ClientWrapper は Firestore クライアントと Firebase App をまとめて保持します。
type ClientWrapper struct {
	App       *firebase.App
	Client    *firestore.Client
	ProjectID string

	opts []option.ClientOption
}

// NewClient initialises the Firebase admin app and its Firestore client.
func NewClient(ctx context.Context, projectID string, creds Credentials, log *zap.Logger) (*ClientWrapper, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts, err := clientOptions(ctx, creds, log)
	if err != nil {
		return nil, err
	}

	var fbCfg *firebase.Config
	if p := strings.TrimSpace(projectID); p != "" {
		fbCfg = &firebase.Config{ProjectID: p}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: firebase app init failed: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: failed to create firestore client: %w", err)
	}

	log.Info("Firestore connected", zap.String("project", projectID))
	return &ClientWrapper{App: app, Client: client, ProjectID: projectID, opts: opts}, nil
}

// Options returns the credential options the app was built with, for other
// Google clients (Cloud Storage) that should share them.
func (cw *ClientWrapper) Options() []option.ClientOption {
	if cw == nil {
		return nil
	}
	return append([]option.ClientOption(nil), cw.opts...)
}

func clientOptions(ctx context.Context, creds Credentials, log *zap.Logger) ([]option.ClientOption, error) {
	if f := strings.TrimSpace(creds.File); f != "" {
		log.Info("using credentials file", zap.String("file", redactPath(f)))
		return []option.ClientOption{option.WithCredentialsFile(f)}, nil
	}
	if s := strings.TrimSpace(creds.Secret); s != "" {
		raw, err := readSecret(ctx, s)
		if err != nil {
			return nil, err
		}
		log.Info("using credentials from Secret Manager")
		return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
	}
	log.Info("using Application Default Credentials (no credentials configured)")
	return nil, nil
}

func readSecret(ctx context.Context, name string) ([]byte, error) {
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: secretmanager.NewClient failed: %w", err)
	}
	defer sm.Close()

	if !strings.Contains(name, "/versions/") {
		name = strings.TrimRight(name, "/") + "/versions/latest"
	}
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil || len(resp.Payload.Data) == 0 {
		return nil, errors.New("firestoreinfra: empty secret payload (" + name + ")")
	}
	return resp.Payload.Data, nil
}

// Ping は簡単な読み取りで接続を確認します。
func (cw *ClientWrapper) Ping(ctx context.Context) error {
	if cw == nil || cw.Client == nil {
		return errors.New("firestore client is nil")
	}
	if _, err := cw.Client.Collections(ctx).Next(); err != nil && !isDone(err) {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

// Close は Firestore クライアントをクローズします。
func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}

func isDone(err error) bool {
	return errors.Is(err, iterator.Done)
}

// redactPath keeps only the last path segment.
func redactPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
