package setup

import (
	"context"
	"crypto/rand"
	"net/http"

	"github.com/bornholm/masthead/internal/config"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

var NewCookieStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (sessions.Store, error) {
	keyPairs := make([][]byte, 0)
	if conf.HTTP.Session.Key == "" {
		key, err := getRandomBytes(32)
		if err != nil {
			return nil, errors.Wrap(err, "could not generate cookie signing key")
		}

		keyPairs = append(keyPairs, key)
	} else {
		keyPairs = append(keyPairs, []byte(conf.HTTP.Session.Key))
	}

	cookieStore := sessions.NewCookieStore(keyPairs...)

	cookieStore.MaxAge(int(conf.HTTP.Session.MaxAge))
	cookieStore.Options.Path = "/"
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.Secure = bool(conf.HTTP.Session.Secure)
	cookieStore.Options.SameSite = http.SameSiteLaxMode

	return cookieStore, nil
})

func getRandomBytes(n int) ([]byte, error) {
	data := make([]byte, n)

	read, err := rand.Read(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if read != n {
		return nil, errors.Errorf("could not read %d bytes", n)
	}

	return data, nil
}
