package streams

import (
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// The Lambda events package and the DynamoDB SDK use different attribute
// value types, so stream images have to be converted before
// attributevalue can unmarshal them.

func convertAttributeValue(eventVal events.DynamoDBAttributeValue) (dynamodbtypes.AttributeValue, error) {
	switch eventVal.DataType() {
	case events.DataTypeString:
		return &dynamodbtypes.AttributeValueMemberS{Value: eventVal.String()}, nil
	case events.DataTypeNumber:
		return &dynamodbtypes.AttributeValueMemberN{Value: eventVal.Number()}, nil
	case events.DataTypeBinary:
		return &dynamodbtypes.AttributeValueMemberB{Value: eventVal.Binary()}, nil
	case events.DataTypeBoolean:
		return &dynamodbtypes.AttributeValueMemberBOOL{Value: eventVal.Boolean()}, nil
	case events.DataTypeMap:
		mapVal, err := convertImage(eventVal.Map())
		if err != nil {
			return nil, fmt.Errorf("error converting map attribute: %w", err)
		}
		return &dynamodbtypes.AttributeValueMemberM{Value: mapVal}, nil
	case events.DataTypeList:
		listVal := make([]dynamodbtypes.AttributeValue, len(eventVal.List()))
		for i, item := range eventVal.List() {
			converted, err := convertAttributeValue(item)
			if err != nil {
				return nil, fmt.Errorf("error converting list item at index %d: %w", i, err)
			}
			listVal[i] = converted
		}
		return &dynamodbtypes.AttributeValueMemberL{Value: listVal}, nil
	case events.DataTypeNull:
		return &dynamodbtypes.AttributeValueMemberNULL{Value: eventVal.IsNull()}, nil
	case events.DataTypeStringSet:
		return &dynamodbtypes.AttributeValueMemberSS{Value: eventVal.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &dynamodbtypes.AttributeValueMemberNS{Value: eventVal.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &dynamodbtypes.AttributeValueMemberBS{Value: eventVal.BinarySet()}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type: %v", eventVal.DataType())
	}
}

func convertImage(eventImage map[string]events.DynamoDBAttributeValue) (map[string]dynamodbtypes.AttributeValue, error) {
	item := make(map[string]dynamodbtypes.AttributeValue, len(eventImage))
	for k, v := range eventImage {
		converted, err := convertAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("error converting attribute %s: %w", k, err)
		}
		item[k] = converted
	}
	return item, nil
}

// UnmarshalStreamImage unmarshals a DynamoDB stream event image
// (NewImage or OldImage) into out.
func UnmarshalStreamImage[T any](eventImage map[string]events.DynamoDBAttributeValue, out *T) error {
	if eventImage == nil {
		return fmt.Errorf("event image is nil")
	}
	item, err := convertImage(eventImage)
	if err != nil {
		return fmt.Errorf("failed to convert event stream image: %w", err)
	}
	return attributevalue.UnmarshalMap(item, out)
}
