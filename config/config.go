package config

import (
	"encoding/json"
	"os"
	"sync"

	"tally/grid"
)

type Config struct {
	QtyDots      int `json:"qtyDots"`
	PriceDots    int `json:"priceDots"`
	DiscountDots int `json:"discountDots"`
	MoneyDots    int `json:"moneyDots"`

	AutoFirstColor  bool `json:"autoFirstColor"`
	HideDroppedRows bool `json:"hideDroppedRows"`
	HpMarkAttr      int  `json:"hpMarkAttr"`

	CompanyName string `json:"companyName"`
	Operator    string `json:"operator"`

	MasterFolderPath string `json:"masterFolderPath"`

	BarcodeRules   []grid.BarcodeRule `json:"barcodeRules"`
	TitleOverrides map[string]string  `json:"titleOverrides"`

	PortalURL      string `json:"portalURL"`
	PortalUserID   string `json:"portalUserID"`
	PortalPassword string `json:"portalPassword"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./tally_config.json"

func defaults(c Config) Config {
	if c.PriceDots == 0 {
		c.PriceDots = 2
	}
	if c.DiscountDots == 0 {
		c.DiscountDots = 2
	}
	if c.MoneyDots == 0 {
		c.MoneyDots = 2
	}
	if c.MasterFolderPath == "" {
		c.MasterFolderPath = "SOU"
	}
	if len(c.BarcodeRules) == 0 {
		// cargo + color code + size code, the factory label layout
		c.BarcodeRules = []grid.BarcodeRule{{Pattern: `(\w{4,8})(\d{2})(\d)`}}
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = defaults(Config{})
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = defaults(tempCfg)
	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	newCfg = defaults(newCfg)
	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GridOptions maps the stored config onto the grid engine knobs.
func (c Config) GridOptions() grid.Options {
	return grid.Options{
		Dots: grid.Dots{
			Qty:      c.QtyDots,
			Price:    c.PriceDots,
			Discount: c.DiscountDots,
			Money:    c.MoneyDots,
		},
		AutoFirstColor:  c.AutoFirstColor,
		HideDroppedRows: c.HideDroppedRows,
		HpMarkAttr:      c.HpMarkAttr,
		Operator:        c.Operator,
		TitleOverrides:  c.TitleOverrides,
	}
}
