package codec

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount 持久化用的十進位數值
//
// JSON 與 YAML 都輸出為數字 (不加引號)，並保留完整精度，
// 避免經過 float64 後重新載入的餘額與記憶體中不同。
type Amount struct {
	decimal.Decimal
}

// NewAmount 包裝 d
func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON 接受數字，也接受帶引號的字串
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

func (a Amount) MarshalYAML() (any, error) {
	// 不指定 tag，讓 "100" 與 "100.5" 都以一般數字輸出
	return &yaml.Node{Kind: yaml.ScalarNode, Value: a.String()}, nil
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}
