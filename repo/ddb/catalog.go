// Package ddb keeps a dataset repository catalog in DynamoDB.
//
// S3 has no compare-and-swap, so a manifest blob cannot be updated safely
// by concurrent publishers. This catalog records every publish as a new
// (accession, version) item and uses DynamoDB conditional writes to make
// version allocation atomic: two publishers racing on the same accession
// cannot both claim the same version.
//
// Table schema:
//   - Partition key: accession (string)
//   - Sort key: version (number), monotonically increasing
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name exprset-catalog \
//	  --attribute-definitions AttributeName=accession,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=accession,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/exprset/repo"
)

// Client is the subset of the DynamoDB API the catalog uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ErrConcurrentPublish is returned when two publishers race on the same
// accession version. The caller can retry; the next attempt allocates the
// following version.
var ErrConcurrentPublish = errors.New("ddb: concurrent publish detected")

// Catalog implements repo.WritableCatalog on a DynamoDB table.
type Catalog struct {
	client    Client
	tableName string
}

// NewCatalog creates a DynamoDB-backed catalog.
func NewCatalog(client Client, tableName string) *Catalog {
	return &Catalog{
		client:    client,
		tableName: tableName,
	}
}

// Resolve returns the latest published entry for an accession.
func (c *Catalog) Resolve(ctx context.Context, accession string) (repo.Entry, error) {
	e, ok, err := c.latest(ctx, accession)
	if err != nil {
		return repo.Entry{}, err
	}
	if !ok {
		return repo.Entry{}, &repo.ErrUnknownAccession{Accession: accession}
	}
	return e, nil
}

// Entries returns the latest entry of every accession, sorted.
func (c *Catalog) Entries(ctx context.Context) ([]repo.Entry, error) {
	latest := make(map[string]repo.Entry)

	var startKey map[string]types.AttributeValue
	for {
		resp, err := c.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("ddb: scan catalog: %w", err)
		}

		for _, item := range resp.Items {
			e, err := entryFromItem(item)
			if err != nil {
				return nil, err
			}
			if prev, ok := latest[e.Accession]; !ok || e.Version > prev.Version {
				latest[e.Accession] = e
			}
		}

		if resp.LastEvaluatedKey == nil {
			break
		}
		startKey = resp.LastEvaluatedKey
	}

	entries := make([]repo.Entry, 0, len(latest))
	for _, e := range latest {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Accession < entries[j].Accession })
	return entries, nil
}

// Publish records a new version of an accession. Version allocation is a
// conditional write, so a concurrent publisher targeting the same version
// fails with ErrConcurrentPublish instead of silently overwriting.
func (c *Catalog) Publish(ctx context.Context, e repo.Entry) error {
	if e.Version == 0 {
		prev, ok, err := c.latest(ctx, e.Accession)
		if err != nil {
			return err
		}
		if ok {
			e.Version = prev.Version + 1
		} else {
			e.Version = 1
		}
	}

	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"accession": &types.AttributeValueMemberS{Value: e.Accession},
			"version":   &types.AttributeValueMemberN{Value: strconv.FormatUint(e.Version, 10)},
			"blob_key":  &types.AttributeValueMemberS{Value: e.Key},
			"checksum":  &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(e.Checksum), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentPublish
		}
		return fmt.Errorf("ddb: publish %q: %w", e.Accession, err)
	}

	return nil
}

// latest queries the highest version item for an accession.
func (c *Catalog) latest(ctx context.Context, accession string) (repo.Entry, bool, error) {
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("accession = :acc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":acc": &types.AttributeValueMemberS{Value: accession},
		},
		ScanIndexForward: aws.Bool(false), // Descending by version
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return repo.Entry{}, false, fmt.Errorf("ddb: query %q: %w", accession, err)
	}

	if len(resp.Items) == 0 {
		return repo.Entry{}, false, nil
	}

	e, err := entryFromItem(resp.Items[0])
	if err != nil {
		return repo.Entry{}, false, err
	}
	return e, true, nil
}

func entryFromItem(item map[string]types.AttributeValue) (repo.Entry, error) {
	accession, ok := item["accession"].(*types.AttributeValueMemberS)
	if !ok {
		return repo.Entry{}, errors.New("ddb: item missing accession attribute")
	}

	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return repo.Entry{}, errors.New("ddb: item missing version attribute")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return repo.Entry{}, fmt.Errorf("ddb: parse version: %w", err)
	}

	keyAttr, ok := item["blob_key"].(*types.AttributeValueMemberS)
	if !ok {
		return repo.Entry{}, errors.New("ddb: item missing blob_key attribute")
	}

	e := repo.Entry{
		Accession: accession.Value,
		Key:       keyAttr.Value,
		Version:   version,
	}

	if checksumAttr, ok := item["checksum"].(*types.AttributeValueMemberN); ok {
		checksum, err := strconv.ParseUint(checksumAttr.Value, 10, 32)
		if err != nil {
			return repo.Entry{}, fmt.Errorf("ddb: parse checksum: %w", err)
		}
		e.Checksum = uint32(checksum)
	}

	return e, nil
}
