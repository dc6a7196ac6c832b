package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeControlTXT creates TXT records for a control channel.
func EncodeControlTXT(info *ControlInfo) TXTRecordMap {
	txt := TXTRecordMap{
		TXTKeyDeviceID: info.DeviceID,
		TXTKeyDriver:   info.Driver,
		TXTKeyVersion:  info.Version,
	}
	if info.MAC != "" {
		txt[TXTKeyMAC] = info.MAC
	}
	if info.RegisterOps {
		txt[TXTKeyRegisterOps] = "1"
	} else {
		txt[TXTKeyRegisterOps] = "0"
	}
	return txt
}

// DecodeControlTXT parses TXT records of a control channel. Port is left
// zero; it comes from the SRV record.
func DecodeControlTXT(txt TXTRecordMap) (*ControlInfo, error) {
	info := &ControlInfo{}

	var ok bool
	for _, f := range []struct {
		key string
		dst *string
	}{
		{TXTKeyDeviceID, &info.DeviceID},
		{TXTKeyDriver, &info.Driver},
		{TXTKeyVersion, &info.Version},
	} {
		*f.dst, ok = txt[f.key]
		if !ok || *f.dst == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequired, f.key)
		}
	}

	info.MAC = txt[TXTKeyMAC]

	switch txt[TXTKeyRegisterOps] {
	case "1":
		info.RegisterOps = true
	case "0", "":
	default:
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyRegisterOps, txt[TXTKeyRegisterOps])
	}

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k != "" {
			txt[k] = v
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: instance name", ErrMissingRequired)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
