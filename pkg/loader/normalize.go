package loader

import (
	"bytes"
	"encoding/json"

	"github.com/itchyny/gojq"
	"github.com/m-mizutani/redload/internal/service"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// processedKeyPrefix is prepended to the source key when the normalizer
// writes a converted copy.
const processedKeyPrefix = "processed/"

type payloadClass int

const (
	// payloadArray is a single JSON document whose top-level value is an array.
	payloadArray payloadClass = iota
	// payloadSingleDocument is a single JSON document that is not an array
	// (object or scalar). Redshift COPY accepts it as one record.
	payloadSingleDocument
	// payloadLineDelimited is content that does not parse as one JSON
	// document. Multiple concatenated objects fall here, so the content is
	// assumed to be NDJSON already.
	payloadLineDelimited
)

// classifyPayload parses raw as one JSON document and reports its shape.
// Elements are returned only for the array case, keeping original byte
// representation and order.
func classifyPayload(raw []byte) (payloadClass, []json.RawMessage) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return payloadLineDelimited, nil
	}

	if _, ok := doc.([]interface{}); !ok {
		return payloadSingleDocument, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return payloadLineDelimited, nil
	}

	return payloadArray, elements
}

// Normalizer converts a source JSON object on S3 into NDJSON that the
// warehouse COPY command accepts.
type Normalizer struct {
	s3Service *service.S3Service
	filter    *gojq.Query
}

// NewNormalizer is constructor of Normalizer
func NewNormalizer(s3Service *service.S3Service) *Normalizer {
	return &Normalizer{
		s3Service: s3Service,
	}
}

// SetFilter sets a jq query applied to each record of a JSON array before
// serialization. Records filtered to null are dropped.
func (x *Normalizer) SetFilter(query string) error {
	q, err := gojq.Parse(query)
	if err != nil {
		return errors.Wrapf(err, "Fail to parse record filter (invalid jq query): %s", query)
	}

	x.filter = q
	return nil
}

// Normalize classifies the source object and returns the object that the
// COPY step loads from. Only a JSON array is rewritten: one compact JSON
// line per element, uploaded under the processed/ prefix. A single JSON
// object and content that does not parse as one document (assumed NDJSON)
// are loadable as-is and returned unchanged without any write.
func (x *Normalizer) Normalize(src models.S3Object) (models.S3Object, error) {
	raw, err := x.s3Service.Download(src)
	if err != nil {
		return src, err
	}

	class, elements := classifyPayload(raw)
	switch class {
	case payloadSingleDocument:
		logger.WithField("src", src.S3URI()).Info("Valid JSON but not an array (likely single object). Using original.")
		return src, nil
	case payloadLineDelimited:
		logger.WithField("src", src.S3URI()).Info("Not valid single JSON document (likely NDJSON). Using original.")
		return src, nil
	}

	lines, err := x.renderLines(elements)
	if err != nil {
		return src, err
	}

	dst := models.NewS3Object(src.Region, src.Bucket, processedKeyPrefix+src.Key)
	if err := x.s3Service.Upload(dst, lines); err != nil {
		return src, err
	}

	logger.WithFields(logrus.Fields{
		"src":     src.S3URI(),
		"dst":     dst.S3URI(),
		"records": len(elements),
	}).Info("Detected JSON Array. Converted to NDJSON.")

	return dst, nil
}

// renderLines emits one compact JSON line per array element in original
// order. With a filter set, each element is piped through the jq query
// instead and every non-null output becomes a line.
func (x *Normalizer) renderLines(elements []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	for _, elem := range elements {
		if x.filter != nil {
			if err := x.renderFiltered(&buf, elem); err != nil {
				return nil, err
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		if err := json.Compact(&buf, elem); err != nil {
			return nil, errors.Wrap(err, "Fail to compact JSON array element")
		}
	}

	return buf.Bytes(), nil
}

func (x *Normalizer) renderFiltered(buf *bytes.Buffer, elem json.RawMessage) error {
	var record interface{}
	if err := json.Unmarshal(elem, &record); err != nil {
		return errors.Wrap(err, "Fail to unmarshal JSON array element")
	}

	iter := x.filter.Run(record)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return errors.Wrap(err, "Fail to apply record filter")
		}
		if v == nil {
			continue
		}

		line, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "Fail to marshal filtered record")
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(line)
	}

	return nil
}
