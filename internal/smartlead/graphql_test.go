package smartlead

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSequencesGraphQL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getSequencesByCampaignId", req.OperationName)
		require.Equal(t, float64(42), req.Variables["id"])
		require.Contains(t, req.Query, "email_campaign_seq_mappings")

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"data": {"email_campaigns_by_pk": {
			"name": "Acme outreach",
			"sequences": [
				{"id": 1, "seq_number": 1, "subject": "Hi", "email_body": "<div>x</div>",
				 "email_seq_variant_mappings": [{"id": 10, "variant_label": "A"}, {"id": 11, "variant_label": "B"}]},
				{"id": 2, "seq_number": 2, "subject": "", "email_body": null, "email_seq_variant_mappings": []}
			]
		}}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	name, sequences, err := client.GetSequencesGraphQL(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Acme outreach", name)
	require.Len(t, sequences, 2)
	require.Len(t, sequences[0].Variants(), 2)
	assert.Equal(t, "B", sequences[0].Variants()[1].Label)
	assert.Nil(t, sequences[1].EmailBody)
}

func TestGetSequencesGraphQLNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"data": {"email_campaigns_by_pk": null}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	_, _, err := client.GetSequencesGraphQL(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campaign 42 not found")
}

func TestGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"errors": [{"message": "field not found"}, {"message": "denied"}]}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	err := client.UpdateFollowUpPercentage(context.Background(), 42, 40)

	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, "updateCampaignById", gqlErr.Operation)
	assert.Equal(t, "Email Server Error with GraphQL - updateCampaignById : field not found; denied", err.Error())
}

func TestUpdateFollowUpPercentage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "updateCampaignById", req.OperationName)
		require.Equal(t, map[string]any{"follow_up_percentage": float64(25)}, req.Variables["changes"])

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"data": {"update_email_campaigns_by_pk": {"id": 42}}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	require.NoError(t, client.UpdateFollowUpPercentage(context.Background(), 42, 25))
}

func TestUpdateFollowUpPercentageRange(t *testing.T) {
	client, err := NewClient(Config{APIToken: "x"})
	require.NoError(t, err)
	require.Error(t, client.UpdateFollowUpPercentage(context.Background(), 1, 120))
	require.Error(t, client.UpdateFollowUpPercentage(context.Background(), 1, -1))
}
