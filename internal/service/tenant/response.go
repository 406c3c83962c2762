package tenant

import (
	"encoding/json"

	"TenantPilot/entity"
)

type TenantResponse struct {
	Success bool          `json:"success"`
	Tenant  entity.Tenant `json:"data"`
	Message string        `json:"message"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ParseTenantResponse(body []byte) (*TenantResponse, error) {
	var response TenantResponse
	err := json.Unmarshal(body, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func ParseStatusResponse(body []byte) (*StatusResponse, error) {
	var response StatusResponse
	err := json.Unmarshal(body, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
