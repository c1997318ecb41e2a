package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/loginus-id/api/internal/domain"
)

// SessionStore persists verification sessions in DynamoDB.
// PK: session_id. The expires_at attribute doubles as the table's TTL, so
// DynamoDB reaps abandoned sessions that the lazy lookup path never sees.
type SessionStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewSessionStore(client *dynamodb.Client, tableName string) *SessionStore {
	return &SessionStore{client: client, tableName: tableName}
}

func (r *SessionStore) Get(ctx context.Context, sessionID string) (*domain.VerificationSession, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("session_id", sessionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	var s domain.VerificationSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionStore) Put(ctx context.Context, s *domain.VerificationSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("session_id", sessionID),
	})
	return err
}

// Entries scans the whole table. The table only ever holds in-flight
// verification sessions, so the scan stays small.
func (r *SessionStore) Entries(ctx context.Context) ([]*domain.VerificationSession, error) {
	var out []*domain.VerificationSession
	var startKey map[string]types.AttributeValue
	for {
		resp, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []*domain.VerificationSession
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		if resp.LastEvaluatedKey == nil {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	// Session ids sort oldest first (millisecond prefix); Scan order is
	// undefined, so enforce the contract here.
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}
