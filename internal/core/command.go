package core

import (
	"fmt"
	"strings"
)

// UpdateCommand returns the firmware update command line for a product,
// chosen by vendor tooling.
func UpdateCommand(p Product) string {
	brand := strings.ToLower(p.Brand)
	id := p.ID
	if id == NotAvailable || id == "" {
		id = "DEVICE_ID"
	}

	switch {
	case strings.Contains(brand, "intel"):
		return fmt.Sprintf("nvmupdate64e -l log.txt -c nvmupdate.cfg -id %s", id)
	case strings.Contains(brand, "mellanox"), strings.Contains(brand, "nvidia"):
		return fmt.Sprintf("mstflint -d 00:03.0 -i %s.bin burn", id)
	default:
		return fmt.Sprintf(`fw_update_tool --device "%s" --firmware %s.bin`, p.Model, p.FW)
	}
}
