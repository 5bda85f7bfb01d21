package indeed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch/internal/logging"
	"jobwatch/internal/scraper/selector"
	"jobwatch/pkg/utils"
)

// fakeSession scripts a browser session for navigator tests.
type fakeSession struct {
	navigated   []string
	filled      map[string]string
	submitted   int
	navigateErr error
	fillErr     error
	currentURL  string
	title       string
}

func newFakeSession() *fakeSession {
	return &fakeSession{filled: make(map[string]string)}
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	if f.navigateErr != nil {
		return f.navigateErr
	}
	f.navigated = append(f.navigated, url)
	if f.currentURL == "" {
		f.currentURL = url
	}
	return nil
}

func (f *fakeSession) CurrentURL() string { return f.currentURL }
func (f *fakeSession) Title() string      { return f.title }

func (f *fakeSession) HTML() (string, error) { return "", nil }

func (f *fakeSession) Fill(_ context.Context, chain selector.Chain, value string) error {
	if f.fillErr != nil {
		return f.fillErr
	}
	f.filled[chain[0].Query] = value
	return nil
}

func (f *fakeSession) Submit(_ context.Context, _ selector.Chain) error {
	f.submitted++
	return nil
}

func (f *fakeSession) Screenshot() ([]byte, error) { return nil, nil }
func (f *fakeSession) Close() error                { return nil }

func newTestNavigator(session *fakeSession, strategy NavStrategy) *Navigator {
	return NewNavigator(session, strategy, 0, 0, 7, logging.GetGlobalLogger())
}

func TestNavigatorDirect(t *testing.T) {
	session := newFakeSession()
	nav := newTestNavigator(session, NavDirect)

	currentURL, err := nav.Go(context.Background(), "uk.indeed.com", "go developer", "London, UK")
	require.NoError(t, err)

	require.Len(t, session.navigated, 1)
	assert.Equal(t,
		"https://uk.indeed.com/jobs?q=go+developer&l=London%2C+UK&sort=date&fromage=7",
		session.navigated[0],
	)
	assert.Equal(t, session.navigated[0], currentURL)
	assert.Empty(t, session.filled)
	assert.Zero(t, session.submitted)
}

func TestNavigatorDirectReturnsPostRedirectURL(t *testing.T) {
	session := newFakeSession()
	session.currentURL = "https://uk.indeed.com/showcaptcha"
	nav := newTestNavigator(session, NavDirect)

	currentURL, err := nav.Go(context.Background(), "uk.indeed.com", "dev", "London")
	require.NoError(t, err)
	assert.Equal(t, "https://uk.indeed.com/showcaptcha", currentURL)
}

func TestNavigatorForm(t *testing.T) {
	session := newFakeSession()
	nav := newTestNavigator(session, NavForm)

	_, err := nav.Go(context.Background(), "www.indeed.com", "data engineer", "Paris, France")
	require.NoError(t, err)

	require.Len(t, session.navigated, 1)
	assert.Equal(t, "https://www.indeed.com/", session.navigated[0])
	assert.Equal(t, "data engineer", session.filled["#text-input-what"])
	assert.Equal(t, "Paris, France", session.filled["#text-input-where"])
	assert.Equal(t, 1, session.submitted)
}

func TestNavigatorFormFillFailureIsNavigationError(t *testing.T) {
	session := newFakeSession()
	session.fillErr = errors.New("no input matched any strategy")
	nav := newTestNavigator(session, NavForm)

	_, err := nav.Go(context.Background(), "www.indeed.com", "dev", "Paris")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNavigation))
}

func TestNavigatorNavigateFailureIsNavigationError(t *testing.T) {
	session := newFakeSession()
	session.navigateErr = fmt.Errorf("net::ERR_TIMED_OUT")
	nav := newTestNavigator(session, NavDirect)

	_, err := nav.Go(context.Background(), "www.indeed.com", "dev", "Berlin")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNavigation))
}
