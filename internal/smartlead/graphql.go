package smartlead

import (
	"context"
	"fmt"
	"strings"

	"github.com/chriscorrea/campctl/internal/campaign"
)

const sequencesQuery = `
query getSequencesByCampaignId($id: Int!) {
  email_campaigns_by_pk(id: $id) {
    name
    sequences: email_campaign_seq_mappings(order_by: {seq_number: asc}) {
      id
      ...BasicEmailCampaignSeqMappingsFragment
      email_seq_variant_mappings {
        id
        variant_label
        __typename
      }
      __typename
    }
    __typename
  }
}

fragment BasicEmailCampaignSeqMappingsFragment on email_campaign_seq_mappings {
  seq_number
  subject
  email_body
  seq_type
  seq_schedule_type
  __typename
}
`

const updateCampaignMutation = `
mutation updateCampaignById($id: Int!, $changes: email_campaigns_set_input!) {
  update_email_campaigns_by_pk(pk_columns: {id: $id}, _set: $changes) {
    id
    __typename
  }
}
`

type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

// GraphQLError is a GraphQL response that carried errors
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("Email Server Error with GraphQL - %s : %s", e.Operation, strings.Join(e.Messages, "; "))
}

// doGraphQL posts one operation and decodes its data into T
func doGraphQL[T any](ctx context.Context, c *Client, req graphQLRequest) (*T, error) {
	if c.logger != nil {
		c.logger.Debug("Sending GraphQL operation", "operation", req.OperationName)
	}

	var out graphQLResponse[T]
	rsp, err := c.restyCli.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&errorBody{}).
		Post(c.graphqlURL)
	if err != nil {
		return nil, fmt.Errorf("failed to send GraphQL operation %s: %w", req.OperationName, err)
	}
	logResponse(c.logger, "GraphQL", rsp)

	if rsp.IsError() {
		return nil, newAPIError("GraphQL", rsp)
	}

	if len(out.Errors) > 0 {
		messages := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &GraphQLError{Operation: req.OperationName, Messages: messages}
	}

	return &out.Data, nil
}

type sequencesData struct {
	Campaign *struct {
		Name      string `json:"name"`
		Sequences []struct {
			ID        int64   `json:"id"`
			SeqNumber int     `json:"seq_number"`
			Subject   string  `json:"subject"`
			EmailBody *string `json:"email_body"`
			Variants  []struct {
				ID    int64  `json:"id"`
				Label string `json:"variant_label"`
			} `json:"email_seq_variant_mappings"`
		} `json:"sequences"`
	} `json:"email_campaigns_by_pk"`
}

// GetSequencesGraphQL reads sequence steps through the GraphQL API.
// Variants carry only their IDs and labels; use GetCampaignSequences for bodies.
func (c *Client) GetSequencesGraphQL(ctx context.Context, campaignID int64) (string, []campaign.Sequence, error) {
	data, err := doGraphQL[sequencesData](ctx, c, graphQLRequest{
		Query:         sequencesQuery,
		Variables:     map[string]any{"id": campaignID},
		OperationName: "getSequencesByCampaignId",
	})
	if err != nil {
		return "", nil, err
	}
	if data.Campaign == nil {
		return "", nil, fmt.Errorf("campaign %d not found", campaignID)
	}

	sequences := make([]campaign.Sequence, 0, len(data.Campaign.Sequences))
	for _, s := range data.Campaign.Sequences {
		seq := campaign.Sequence{
			ID:        s.ID,
			SeqNumber: s.SeqNumber,
			Subject:   s.Subject,
			EmailBody: s.EmailBody,
		}
		for _, v := range s.Variants {
			seq.SequenceVariants = append(seq.SequenceVariants, campaign.Variant{ID: v.ID, Label: v.Label})
		}
		sequences = append(sequences, seq)
	}

	return data.Campaign.Name, sequences, nil
}

type updateCampaignData struct {
	Updated *struct {
		ID int64 `json:"id"`
	} `json:"update_email_campaigns_by_pk"`
}

// UpdateFollowUpPercentage sets the share of leads that receive follow-ups
func (c *Client) UpdateFollowUpPercentage(ctx context.Context, campaignID int64, percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("follow-up percentage must be between 0 and 100, got %v", percentage)
	}

	data, err := doGraphQL[updateCampaignData](ctx, c, graphQLRequest{
		Query: updateCampaignMutation,
		Variables: map[string]any{
			"id":      campaignID,
			"changes": map[string]any{"follow_up_percentage": percentage},
		},
		OperationName: "updateCampaignById",
	})
	if err != nil {
		return err
	}
	if data.Updated == nil {
		return fmt.Errorf("campaign %d not found", campaignID)
	}
	return nil
}
