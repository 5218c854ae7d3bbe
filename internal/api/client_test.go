package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

// fakeBackend serves a gin router the way the real backend lays out its routes.
func fakeBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestList_DecodesDataAndSendsToken(t *testing.T) {
	var gotAuth, gotReqID string
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/customers/all", func(c *gin.Context) {
			gotAuth = c.GetHeader("Authorization")
			gotReqID = c.GetHeader("X-Request-ID")
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": []gin.H{
					{"_id": "c1", "name": "Acme Freight", "balance": 1250.5},
					{"_id": "c2", "name": "Blue Line", "address": gin.H{"city": "Reno"}},
				},
			})
		})
	})

	c := NewClient(srv.URL+"/api", Session{Token: "tok123"})
	recs, err := c.List(context.Background(), Customers)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("missing X-Request-ID")
	}
	if got := recs[0].Text("balance"); got != "1250.5" {
		t.Fatalf("balance = %q, want 1250.5", got)
	}
	if got := recs[1].Text("address.city"); got != "Reno" {
		t.Fatalf("address.city = %q, want Reno", got)
	}
}

func TestList_FallsBackToPluralKey(t *testing.T) {
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/vehicles/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": []gin.H{{"_id": "v1", "truckNumber": "T-9"}}})
		})
	})

	recs, err := NewClient(srv.URL, Session{}).List(context.Background(), Fleet)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Text("truckNumber") != "T-9" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestCreate_ApplicationFailureKeepsBackendMessage(t *testing.T) {
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/customers/add", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Duplicate entry"})
		})
	})

	fields := Record{"name": "Acme", "email": "ops@acme.test", "phone": "555-0100"}
	err := NewClient(srv.URL, Session{}).Create(context.Background(), Customers, fields)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsKind(err, KindApplication) {
		t.Fatalf("expected application error, got %v", err)
	}
	if got := DisplayMessage(err); got != "Duplicate entry" {
		t.Fatalf("DisplayMessage = %q, want %q", got, "Duplicate entry")
	}
}

func TestDelete_Non2xxPrefersBackendMessage(t *testing.T) {
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.DELETE("/vehicles/:id", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Vehicle <b>T-9</b> is on a trip"})
		})
	})

	err := NewClient(srv.URL, Session{}).Delete(context.Background(), Fleet, "v1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Kind != KindTransport || apiErr.Status != http.StatusConflict {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if got := DisplayMessage(err); got != "Vehicle T-9 is on a trip" {
		t.Fatalf("DisplayMessage = %q", got)
	}
}

func TestDisplayMessage_Fallbacks(t *testing.T) {
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/customers/all", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
	})
	_, err := NewClient(srv.URL, Session{}).List(context.Background(), Customers)
	if got := DisplayMessage(err); got != GenericMessage {
		t.Fatalf("DisplayMessage = %q, want generic", got)
	}

	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()
	_, err = NewClient(url, Session{}).List(context.Background(), Customers)
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got := DisplayMessage(err); !strings.Contains(got, "Cannot reach") {
		t.Fatalf("DisplayMessage = %q", got)
	}
	if got := DisplayMessage(errors.New("x")); got != GenericMessage {
		t.Fatalf("DisplayMessage(plain) = %q", got)
	}
}

func TestCreate_ValidationSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/customers/add", func(c *gin.Context) {
			hits.Add(1)
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	err := NewClient(srv.URL, Session{}).Create(context.Background(), Customers, Record{"name": "Acme"})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := DisplayMessage(err); got != "Please fill in: Email, Phone" {
		t.Fatalf("DisplayMessage = %q", got)
	}
	if hits.Load() != 0 {
		t.Fatal("request should not have been sent")
	}
}

func TestBidActions(t *testing.T) {
	var assigned, posted map[string]any
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.PUT("/bids/:id/assign-driver", func(c *gin.Context) {
			_ = c.BindJSON(&assigned)
			assigned["bid"] = c.Param("id")
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		r.GET("/bids/:id/negotiation", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "messages": []gin.H{{"sender": "shipper", "message": "1800?"}}})
		})
		r.POST("/bids/:id/negotiation", func(c *gin.Context) {
			_ = c.BindJSON(&posted)
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		r.GET("/bids/accepted", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": []gin.H{{"_id": "b1"}}})
		})
	})
	c := NewClient(srv.URL, Session{})
	ctx := context.Background()

	if err := c.AssignDriver(ctx, "b1", "d7"); err != nil {
		t.Fatalf("AssignDriver: %v", err)
	}
	if assigned["driverId"] != "d7" || assigned["bid"] != "b1" {
		t.Fatalf("unexpected assign body: %v", assigned)
	}
	if err := c.AssignDriver(ctx, "b1", ""); !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	msgs, err := c.Thread(ctx, "b1")
	if err != nil || len(msgs) != 1 || msgs[0].Text("message") != "1800?" {
		t.Fatalf("Thread = %v, %v", msgs, err)
	}

	if err := c.PostMessage(ctx, "b1", "1750 final", 1750); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if posted["message"] != "1750 final" || posted["counterOffer"] != float64(1750) {
		t.Fatalf("unexpected post body: %v", posted)
	}

	accepted, err := c.AcceptedBids(ctx)
	if err != nil || len(accepted) != 1 {
		t.Fatalf("AcceptedBids = %v, %v", accepted, err)
	}
}

func TestItemPaths_EscapeRecordIDs(t *testing.T) {
	type hit struct{ method, path, query string }
	var hits []hit
	srv := fakeBackend(t, func(r *gin.Engine) {
		r.NoRoute(func(c *gin.Context) {
			hits = append(hits, hit{c.Request.Method, c.Request.URL.EscapedPath(), c.Request.URL.RawQuery})
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})
	c := NewClient(srv.URL, Session{Token: "tok"})
	ctx := context.Background()

	if err := c.Delete(ctx, Customers, "abc?cascade=all"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, Customers, "../vehicles/v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.AssignDriver(ctx, "b1/../b2", "d7"); err != nil {
		t.Fatalf("AssignDriver: %v", err)
	}

	want := []hit{
		{http.MethodDelete, "/customers/abc%3Fcascade=all", ""},
		{http.MethodDelete, "/customers/..%2Fvehicles%2Fv1", ""},
		{http.MethodPut, "/bids/b1%2F..%2Fb2/assign-driver", ""},
	}
	if diff := cmp.Diff(want, hits, cmp.AllowUnexported(hit{})); diff != "" {
		t.Fatalf("requests (-want +got):\n%s", diff)
	}
}
