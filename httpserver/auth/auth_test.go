package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestTableMatchPrefersLongestPrefix(t *testing.T) {
	tbl := Table{
		{URIPrefix: "/", Realm: "root"},
		{URIPrefix: "/admin", Realm: "admin"},
	}
	e := tbl.Match("/admin/users")
	require.NotNil(t, e)
	require.Equal(t, "admin", e.Realm)
}

func TestTableMatchNoneApplies(t *testing.T) {
	tbl := Table{{URIPrefix: "/admin", Realm: "admin"}}
	require.Nil(t, tbl.Match("/public/index.html"))
}

func TestEntryChallenge(t *testing.T) {
	e := Entry{Realm: "secure area"}
	require.Equal(t, `Basic realm="secure area"`, e.Challenge())
}

func TestEntryValidateAcceptsCorrectCredentials(t *testing.T) {
	e := Entry{Credentials: map[string]string{"alice": "secret"}}
	require.True(t, e.Validate(basicHeader("alice", "secret")))
}

func TestEntryValidateRejectsWrongPassword(t *testing.T) {
	e := Entry{Credentials: map[string]string{"alice": "secret"}}
	require.False(t, e.Validate(basicHeader("alice", "wrong")))
}

func TestEntryValidateRejectsMissingHeader(t *testing.T) {
	e := Entry{Credentials: map[string]string{"alice": "secret"}}
	require.False(t, e.Validate(""))
}

func TestEntryValidateRejectsMalformedBase64(t *testing.T) {
	e := Entry{Credentials: map[string]string{"alice": "secret"}}
	require.False(t, e.Validate("Basic ???not-base64"))
}

func TestRequiredReturnsNilWhenAuthenticated(t *testing.T) {
	tbl := Table{{URIPrefix: "/admin", Realm: "admin", Credentials: map[string]string{"a": "b"}}}
	uri := srvtps.URI{Path: []byte("/admin/x")}
	require.Nil(t, Required(tbl, uri, basicHeader("a", "b")))
}

func TestRequiredReturnsEntryWhenUnauthenticated(t *testing.T) {
	tbl := Table{{URIPrefix: "/admin", Realm: "admin", Credentials: map[string]string{"a": "b"}}}
	uri := srvtps.URI{Path: []byte("/admin/x")}
	got := Required(tbl, uri, "")
	require.NotNil(t, got)
	require.Equal(t, "admin", got.Realm)
}

func TestRequiredReturnsNilWhenNoTableEntryApplies(t *testing.T) {
	tbl := Table{{URIPrefix: "/admin", Realm: "admin"}}
	uri := srvtps.URI{Path: []byte("/public")}
	require.Nil(t, Required(tbl, uri, ""))
}
