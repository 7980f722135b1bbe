// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"encoding/json"
	"io/ioutil"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

//Config 配置
type Config struct {
	Title   string   `json:"title,omitempty"`
	Log     *Log     `json:"log,omitempty"`
	Store   *Store   `json:"store,omitempty"`
	Event   *Event   `json:"event,omitempty"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

//Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `json:"loglevel,omitempty"`
	LogConsoleLevel string `json:"logConsoleLevel,omitempty"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `json:"logFile,omitempty"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `json:"maxFileSize,omitempty"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `json:"maxBackups,omitempty"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge uint32 `json:"maxAge,omitempty"`
	// 日志文件名是否使用本地事件（否则使用UTC时间）
	LocalTime bool `json:"localTime,omitempty"`
	// 历史日志文件是否压缩（压缩格式为gz）
	Compress bool `json:"compress,omitempty"`
	// 是否打印调用源文件和行号
	CallerFile bool `json:"callerFile,omitempty"`
	// 是否打印调用方法
	CallerFunction bool `json:"callerFunction,omitempty"`
}

//Store 状态数据库配置
type Store struct {
	Name    string `json:"name,omitempty"`
	Driver  string `json:"driver,omitempty"`
	DbPath  string `json:"dbPath,omitempty"`
	DbCache int32  `json:"dbCache,omitempty"`
}

//Event 事件发布配置
type Event struct {
	// log, kafka 或者 none
	Driver  string   `json:"driver,omitempty"`
	Brokers []string `json:"brokers,omitempty"`
	Topic   string   `json:"topic,omitempty"`
	// 单位: 毫秒
	WriteTimeout int64 `json:"writeTimeout,omitempty"`
}

//Metrics 统计输出配置
type Metrics struct {
	EnableMetrics bool   `json:"enableMetrics,omitempty"`
	DataEmitMode  string `json:"dataEmitMode,omitempty"`
	// 输出间隔, 单位: 纳秒
	Duration int64 `json:"duration,omitempty"`
}

//ConfigSubModule 子模块配置, 以 json 保存, 由子模块自己解析
type ConfigSubModule struct {
	Store map[string][]byte
	Exec  map[string][]byte
}

// subModule 子模块结构体
type subModule struct {
	Store map[string]interface{}
	Exec  map[string]interface{}
}

// InitCfg 初始化配置
func InitCfg(path string) (*Config, *ConfigSubModule) {
	return InitCfgString(ReadFile(path))
}

// InitCfgString 初始化配置, 没有配置的项使用默认配置
func InitCfgString(cfgstring string) (*Config, *ConfigSubModule) {
	cfg, sub, err := ParseCfgString(cfgstring)
	if err != nil {
		panic(err)
	}
	return cfg, sub
}

// ParseCfgString 同 InitCfgString, 返回错误而不是 panic
func ParseCfgString(cfgstring string) (*Config, *ConfigSubModule, error) {
	merged, err := MergeCfgString(cfgstring, DefaultCfgString)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := initCfgString(merged)
	if err != nil {
		return nil, nil, err
	}
	sub, err := initSubModuleString(merged)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sub, nil
}

// MergeCfgString 用默认配置补全用户配置
func MergeCfgString(cfgstring, cfgdefault string) (string, error) {
	def := make(map[string]interface{})
	if _, err := tml.Decode(cfgdefault, &def); err != nil {
		return "", err
	}
	conf := make(map[string]interface{})
	if _, err := tml.Decode(cfgstring, &conf); err != nil {
		return "", err
	}
	if errstr := MergeConfig(conf, def); errstr != "" {
		return "", errors.Wrap(ErrConfig, errstr)
	}
	buf := new(bytes.Buffer)
	if err := tml.NewEncoder(buf).Encode(conf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MergeConfig 把默认配置中用户没有设置的项合并进来
func MergeConfig(conf map[string]interface{}, def map[string]interface{}) string {
	errstr := checkConfig("", conf, def)
	if errstr != "" {
		return errstr
	}
	mergeConfig(conf, def)
	return ""
}

// 表和普通值不能互相覆盖
func checkConfig(key string, conf map[string]interface{}, def map[string]interface{}) string {
	errstr := ""
	for key1, value1 := range conf {
		vdef, ok := def[key1]
		if !ok {
			continue
		}
		conf1, ok1 := value1.(map[string]interface{})
		def1, ok2 := vdef.(map[string]interface{})
		if ok1 && ok2 {
			errstr += checkConfig(getkey(key, key1), conf1, def1)
		} else if ok1 != ok2 {
			errstr += "rewrite default key " + getkey(key, key1) + " with different kind\n"
		}
	}
	return errstr
}

func mergeConfig(conf map[string]interface{}, def map[string]interface{}) {
	for key1, value1 := range def {
		vconf, ok := conf[key1]
		if !ok {
			conf[key1] = value1
			continue
		}
		conf1, ok1 := vconf.(map[string]interface{})
		def1, ok2 := value1.(map[string]interface{})
		if ok1 && ok2 {
			mergeConfig(conf1, def1)
		}
	}
}

func getkey(key, key1 string) string {
	if key == "" {
		return key1
	}
	return key + "." + key1
}

func initCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func initSubModuleString(cfgstring string) (*ConfigSubModule, error) {
	var cfg subModule
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, err
	}
	return parseSubModule(&cfg)
}

func parseSubModule(cfg *subModule) (*ConfigSubModule, error) {
	var subcfg ConfigSubModule
	var err error
	if subcfg.Store, err = parseItem(cfg.Store); err != nil {
		return nil, err
	}
	if subcfg.Exec, err = parseItem(cfg.Exec); err != nil {
		return nil, err
	}
	return &subcfg, nil
}

func parseItem(data map[string]interface{}) (map[string][]byte, error) {
	subconfig := make(map[string][]byte)
	if len(data) == 0 {
		return subconfig, nil
	}
	subcfg, ok := data["sub"].(map[string]interface{})
	if !ok {
		return subconfig, nil
	}
	for k := range subcfg {
		b, err := json.Marshal(subcfg[k])
		if err != nil {
			return nil, err
		}
		subconfig[k] = b
	}
	return subconfig, nil
}

// ReadFile 读取配置文件
func ReadFile(path string) string {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(data)
}
