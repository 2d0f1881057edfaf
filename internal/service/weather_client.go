package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrWeatherUnavailable 在天气数据获取失败时返回，调用方降级处理。
var ErrWeatherUnavailable = errors.New("weather data unavailable")

// WeatherData 是天气提供方返回的当前观测值。
type WeatherData struct {
	TemperatureC float64 `json:"temperature_c"`
	Humidity     float64 `json:"humidity"`
	FeelsLikeC   float64 `json:"feels_like_c"`
	Condition    string  `json:"condition"`
	Location     string  `json:"location"`
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type weatherResponse struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Humidity  float64 `json:"humidity"`
		FeelsLike float64 `json:"feelslike_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// WeatherClient 调用外部天气接口获取指定坐标的当前观测值。
// 获取失败不影响饮水记录主流程。
type WeatherClient struct {
	http    httpDoer
	baseURL string
	apiKey  string
}

// NewWeatherClient 构造 WeatherClient，默认 10 秒超时。
func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.weatherapi.com/v1",
		apiKey:  strings.TrimSpace(apiKey),
	}
}

// SetHTTPClient 替换 HTTP 客户端，主要面向测试场景。
func (c *WeatherClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL 覆盖天气接口基础地址，便于测试或自定义代理。
func (c *WeatherClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Configured 判断是否配置了 API Key。
func (c *WeatherClient) Configured() bool {
	return c.apiKey != ""
}

// Current 获取指定坐标的当前天气。
func (c *WeatherClient) Current(ctx context.Context, latitude, longitude float64) (WeatherData, error) {
	if c.apiKey == "" {
		return WeatherData{}, fmt.Errorf("%w: api key not configured", ErrWeatherUnavailable)
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", fmt.Sprintf("%.4f,%.4f", latitude, longitude))
	endpoint := fmt.Sprintf("%s/current.json?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WeatherData{}, fmt.Errorf("%w: build request: %v", ErrWeatherUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "waterbuddy/1.0")

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return WeatherData{}, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return WeatherData{}, fmt.Errorf("%w: read response: %v", ErrWeatherUnavailable, err)
	}

	var decoded weatherResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return WeatherData{}, fmt.Errorf("%w: decode response: %v", ErrWeatherUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(decoded.Error.Message)
		if msg == "" {
			msg = resp.Status
		}
		return WeatherData{}, fmt.Errorf("%w: %s", ErrWeatherUnavailable, msg)
	}

	return WeatherData{
		TemperatureC: decoded.Current.TempC,
		Humidity:     decoded.Current.Humidity,
		FeelsLikeC:   decoded.Current.FeelsLike,
		Condition:    decoded.Current.Condition.Text,
		Location:     decoded.Location.Name,
	}, nil
}
