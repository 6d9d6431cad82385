package parser

import (
	"bytes"
	stdjson "encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors" // Custom errors package
	"github.com/mcncl/jsontree/internal/models"
)

// numberLiteral is the JSON number grammar. The token stream accepts forms
// such as 01 and 1. that are not JSON.
var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// rootPath is the location prefix used in depth errors raised while decoding
const rootPath = "$"

// Parser decodes JSON and YAML documents into ordered models values
type Parser struct {
	maxDepth int
}

// NewParser creates a Parser with the default nesting limit
func NewParser() *Parser {
	return &Parser{maxDepth: config.DefaultMaxDepth}
}

// NewParserWithConfig creates a Parser that shares the configured nesting limit
func NewParserWithConfig(cfg *config.Config) *Parser {
	return &Parser{maxDepth: cfg.MaxDepth}
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	return NewParser().Parse(reader)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	return NewParser().ParseString(jsonString)
}

// ParseFile parses a JSON or YAML file, chosen by extension
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	return NewParser().ParseFile(filePath, models.FormatAuto)
}

// DetectFormat picks the format of a file from its extension
func DetectFormat(filePath string) models.Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yml", ".yaml":
		return models.FormatYAML
	default:
		return models.FormatJSON
	}
}

// sniffFormat guesses the format of unnamed input. JSON documents that do
// not start with a container are also valid YAML scalars and decode the same.
func sniffFormat(data []byte) models.Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return models.FormatJSON
	}
	return models.FormatYAML
}

// Parse decodes a single JSON value, keeping object keys in source order.
// Numbers are kept as json.Number so their text survives.
func (p *Parser) Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if err := checkSyntax(data); err != nil {
		return models.IntermediateRepresentation{}, invalidJSON(err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	tok, err := decoder.Token()
	if err != nil {
		return models.IntermediateRepresentation{}, invalidJSON(err)
	}

	rootValue, err := p.decodeJSON(decoder, tok, rootPath, 0)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}

	// Only whitespace may follow the first value
	if _, err := decoder.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return newIR(rootValue, models.FormatJSON), nil
}

// decodeJSON builds the value that starts with tok. depth is the number of
// containers enclosing it.
func (p *Parser) decodeJSON(decoder *json.Decoder, tok json.Token, path string, depth int) (models.JSONValue, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			if depth+1 > p.maxDepth {
				return nil, tooDeep(path, p.maxDepth)
			}
			return p.decodeObject(decoder, path, depth)
		case '[':
			if depth+1 > p.maxDepth {
				return nil, tooDeep(path, p.maxDepth)
			}
			return p.decodeArray(decoder, path, depth)
		default:
			return nil, invalidJSON(fmt.Errorf("unexpected delimiter %q", rune(v)))
		}
	case json.Number:
		if !numberLiteral.MatchString(string(v)) {
			return nil, invalidJSON(fmt.Errorf("invalid number literal %q", string(v)))
		}
		return stdjson.Number(v), nil
	case float64:
		return stdjson.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string, bool, nil:
		return v, nil
	default:
		return nil, invalidJSON(fmt.Errorf("unexpected token %v", v))
	}
}

func (p *Parser) decodeObject(decoder *json.Decoder, path string, depth int) (models.JSONValue, error) {
	obj := models.Object{}
	index := make(map[string]int)
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, invalidJSON(fmt.Errorf("object key must be a string, got %v", keyTok))
		}

		valTok, err := decoder.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		val, err := p.decodeJSON(decoder, valTok, analyzer.KeyPath(path, key), depth+1)
		if err != nil {
			return nil, err
		}

		// A repeated key keeps its first position and takes the last value
		if i, seen := index[key]; seen {
			obj[i].Value = val
			continue
		}
		index[key] = len(obj)
		obj = append(obj, models.Member{Key: key, Value: val})
	}
	if err := expectDelim(decoder, '}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *Parser) decodeArray(decoder *json.Decoder, path string, depth int) (models.JSONValue, error) {
	arr := models.Array{}
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		val, err := p.decodeJSON(decoder, tok, analyzer.IndexPath(path, len(arr)), depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if err := expectDelim(decoder, ']'); err != nil {
		return nil, err
	}
	return arr, nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return invalidJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return invalidJSON(fmt.Errorf("expected %q, got %v", rune(want), tok))
	}
	return nil
}

// ParseString parses JSON from a string
func (p *Parser) ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	// An empty reader gives io.EOF, but whitespace may not, so check first
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return p.Parse(strings.NewReader(jsonString))
}

// ParseBytes decodes data in the given format. FormatAuto sniffs the content.
func (p *Parser) ParseBytes(data []byte, format models.Format) (models.IntermediateRepresentation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	if format == models.FormatAuto || format == "" {
		format = sniffFormat(data)
	}

	switch format {
	case models.FormatJSON:
		return p.Parse(bytes.NewReader(data))
	case models.FormatYAML:
		return p.ParseYAML(bytes.NewReader(data))
	default:
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("unknown input format '%s'", format), nil)
	}
}

// ParseFile parses a file. FormatAuto picks the format from the extension.
func (p *Parser) ParseFile(filePath string, format models.Format) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	if format == models.FormatAuto || format == "" {
		format = DetectFormat(filePath)
	}
	if format == models.FormatYAML {
		return p.ParseYAML(file)
	}
	return p.Parse(file)
}

func newIR(root models.JSONValue, format models.Format) models.IntermediateRepresentation {
	_, isArray := root.(models.Array)
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: isArray,
		Format:      format,
	}
}

// checkSyntax runs the first value through the full goccy decoder, which
// enforces separators and literals that Decoder.Token skips over. Trailing
// values are left to the token walk.
func checkSyntax(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var v interface{}
	return decoder.Decode(&v)
}

func invalidJSON(err error) error {
	return errors.NewParsingError(fmt.Sprintf("JSON syntax error: %v", err), errors.ErrInvalidJSON)
}

func tooDeep(path string, limit int) error {
	return errors.NewParsingError(fmt.Sprintf("document is nested deeper than %d levels at %s", limit, path), &errors.DepthExceededError{Path: path, Limit: limit})
}
