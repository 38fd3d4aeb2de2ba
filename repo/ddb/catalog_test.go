package ddb

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/exprset/blobstore"
	"github.com/hupe1980/exprset/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is an in-memory DynamoDB mock honoring the conditional write
// the catalog relies on.
type mockClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // accession:version -> item
}

func newMockClient() *mockClient {
	return &mockClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accession := params.Item["accession"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := accession + ":" + version

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accession := params.ExpressionAttributeValues[":acc"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["accession"].(*types.AttributeValueMemberS).Value == accession {
			items = append(items, item)
		}
	}

	// Descending by numeric version, as ScanIndexForward=false requests.
	sort.Slice(items, func(i, j int) bool {
		vi, _ := strconv.ParseUint(items[i]["version"].(*types.AttributeValueMemberN).Value, 10, 64)
		vj, _ := strconv.ParseUint(items[j]["version"].(*types.AttributeValueMemberN).Value, 10, 64)
		return vi > vj
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func (m *mockClient) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		items = append(items, item)
	}

	return &dynamodb.ScanOutput{Items: items}, nil
}

func (m *mockClient) putRaw(accession string, version uint64, blobKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := accession + ":" + strconv.FormatUint(version, 10)
	m.items[key] = map[string]types.AttributeValue{
		"accession": &types.AttributeValueMemberS{Value: accession},
		"version":   &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		"blob_key":  &types.AttributeValueMemberS{Value: blobKey},
	}
}

func TestCatalog_PublishResolve(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(newMockClient(), "exprset-catalog")

	_, err := catalog.Resolve(ctx, "GSE1")
	var unknown *repo.ErrUnknownAccession
	require.ErrorAs(t, err, &unknown)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, catalog.Publish(ctx, repo.Entry{Accession: "GSE1", Key: "GSE1.esd", Checksum: 99}))

	e, err := catalog.Resolve(ctx, "GSE1")
	require.NoError(t, err)
	assert.Equal(t, "GSE1.esd", e.Key)
	assert.Equal(t, uint64(1), e.Version)
	assert.Equal(t, uint32(99), e.Checksum)

	// Re-publishing allocates the next version and wins the resolve.
	require.NoError(t, catalog.Publish(ctx, repo.Entry{Accession: "GSE1", Key: "GSE1.v2.esd"}))

	e, err = catalog.Resolve(ctx, "GSE1")
	require.NoError(t, err)
	assert.Equal(t, "GSE1.v2.esd", e.Key)
	assert.Equal(t, uint64(2), e.Version)
}

func TestCatalog_ConcurrentPublishConflict(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(newMockClient(), "exprset-catalog")

	// Both publishers saw the same latest version and race on version 1.
	require.NoError(t, catalog.Publish(ctx, repo.Entry{Accession: "GSE1", Key: "a.esd", Version: 1}))

	err := catalog.Publish(ctx, repo.Entry{Accession: "GSE1", Key: "b.esd", Version: 1})
	assert.ErrorIs(t, err, ErrConcurrentPublish)

	// A retry with auto-allocation succeeds on version 2.
	require.NoError(t, catalog.Publish(ctx, repo.Entry{Accession: "GSE1", Key: "b.esd"}))

	e, err := catalog.Resolve(ctx, "GSE1")
	require.NoError(t, err)
	assert.Equal(t, "b.esd", e.Key)
	assert.Equal(t, uint64(2), e.Version)
}

func TestCatalog_EntriesLatestPerAccession(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	catalog := NewCatalog(client, "exprset-catalog")

	client.putRaw("GSE2", 1, "GSE2.v1.esd")
	client.putRaw("GSE2", 2, "GSE2.v2.esd")
	client.putRaw("GSE1", 1, "GSE1.esd")

	entries, err := catalog.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "GSE1", entries[0].Accession)
	assert.Equal(t, "GSE1.esd", entries[0].Key)
	assert.Equal(t, "GSE2", entries[1].Accession)
	assert.Equal(t, "GSE2.v2.esd", entries[1].Key)
	assert.Equal(t, uint64(2), entries[1].Version)
}
