package cache

import "encoding/json"

// DecodeValue decodes a value returned by Get into out. The memory cache returns the
// generic JSON-decoded form and the redis cache returns the raw JSON string; both
// round-trip through encoding/json into the caller's type.
func DecodeValue(value interface{}, out interface{}) error {
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), out)
	case []byte:
		return json.Unmarshal(v, out)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
