package view

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/activityconsole/internal/activity"
	"example.com/activityconsole/internal/domain"
	"example.com/activityconsole/internal/testsupport"
	httptransport "example.com/activityconsole/internal/transport/http"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type countingRefresh struct {
	calls int
	err   error
}

func (c *countingRefresh) refresh(context.Context) error {
	c.calls++
	return c.err
}

func apiClient(api *testsupport.FakeAPI) *activity.Client {
	return activity.NewClient(httptransport.NewClient(httptransport.ClientConfig{BaseURL: api.URL()}))
}

func TestDeleteNoContentRefreshesOnce(t *testing.T) {
	api := testsupport.NewFakeAPI()
	defer api.Close()
	api.Respond(http.MethodDelete, "/activities/42", http.StatusNoContent, "")

	refresh := &countingRefresh{}
	list := NewActivityList(staticToken("abc"), apiClient(api), refresh.refresh)
	list.SetActivities([]domain.Activity{{ID: "42", Name: "Row"}})

	list.Delete(context.Background(), "42")

	require.Equal(t, 1, refresh.calls)
	require.Empty(t, list.Alert())
	require.Equal(t, StateIdle, list.State())

	calls := api.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "Bearer abc", calls[0].Authorization)
}

func TestDeleteForbiddenShowsAlert(t *testing.T) {
	api := testsupport.NewFakeAPI()
	defer api.Close()
	api.Respond(http.MethodDelete, "/activities/42", http.StatusForbidden, `{"message":"forbidden"}`)

	refresh := &countingRefresh{}
	list := NewActivityList(staticToken("abc"), apiClient(api), refresh.refresh)
	items := []domain.Activity{{ID: "42", Name: "Row"}}
	list.SetActivities(items)

	list.Delete(context.Background(), "42")

	require.Zero(t, refresh.calls)
	require.Equal(t, "forbidden", list.Alert())
	require.Equal(t, items, list.Activities())

	var out bytes.Buffer
	require.NoError(t, list.Render(&out))
	require.Equal(t, "! forbidden\n- Row (id 42) [delete 42]\n", out.String())
}

func TestDeleteSignedOutNeverReachesServer(t *testing.T) {
	api := testsupport.NewFakeAPI()
	defer api.Close()

	refresh := &countingRefresh{}
	list := NewActivityList(staticToken(""), apiClient(api), refresh.refresh)
	list.Delete(context.Background(), "42")

	require.Equal(t, "You must be signed in to delete an activity.", list.Alert())
	require.Zero(t, refresh.calls)
	require.Empty(t, api.Calls())
}

func TestNextDeleteClearsAlert(t *testing.T) {
	deleter := &stubDeleter{err: errors.New("boom")}
	refresh := &countingRefresh{}
	list := NewActivityList(staticToken("abc"), deleter, refresh.refresh)

	list.Delete(context.Background(), "1")
	require.Equal(t, "boom", list.Alert())

	deleter.err = nil
	list.Delete(context.Background(), "2")
	require.Empty(t, list.Alert())
	require.Equal(t, 1, refresh.calls)
	require.Equal(t, []domain.ActivityID{"1", "2"}, deleter.ids)
}

func TestRefreshFailureShowsAlert(t *testing.T) {
	refresh := &countingRefresh{err: errors.New("Request failed (502)")}
	list := NewActivityList(staticToken("abc"), &stubDeleter{}, refresh.refresh)

	list.Delete(context.Background(), "1")
	require.Equal(t, 1, refresh.calls)
	require.Equal(t, "Request failed (502)", list.Alert())
}

func TestStateWhileDeleting(t *testing.T) {
	deleter := &blockingDeleter{started: make(chan struct{}), release: make(chan struct{})}
	list := NewActivityList(staticToken("abc"), deleter, nil)
	require.Equal(t, StateIdle, list.State())

	done := make(chan struct{})
	go func() {
		list.Delete(context.Background(), "7")
		close(done)
	}()

	<-deleter.started
	require.Equal(t, StateDeleting, list.State())
	close(deleter.release)
	<-done
	require.Equal(t, StateIdle, list.State())
}

func TestRenderHidesDeleteWhenSignedOut(t *testing.T) {
	list := NewActivityList(staticToken(""), &stubDeleter{}, nil)
	list.SetActivities([]domain.Activity{{ID: "1", Name: "Yoga"}, {ID: "2", Name: "Run"}})

	var out bytes.Buffer
	require.NoError(t, list.Render(&out))
	require.Equal(t, "- Yoga (id 1)\n- Run (id 2)\n", out.String())
}

func TestRenderEmpty(t *testing.T) {
	list := NewActivityList(staticToken("abc"), &stubDeleter{}, nil)

	var out bytes.Buffer
	require.NoError(t, list.Render(&out))
	require.Equal(t, "(no activities)\n", out.String())
}

type stubDeleter struct {
	ids []domain.ActivityID
	err error
}

func (s *stubDeleter) Delete(_ context.Context, _ string, id domain.ActivityID) error {
	s.ids = append(s.ids, id)
	return s.err
}

type blockingDeleter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingDeleter) Delete(context.Context, string, domain.ActivityID) error {
	close(b.started)
	<-b.release
	return nil
}
