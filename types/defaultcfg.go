// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// DefaultCfgString 默认配置
var DefaultCfgString = `
Title="guessnum"

[log]
loglevel = "info"
logConsoleLevel = "error"
logFile = ""
maxFileSize = 300
maxBackups = 100
maxAge = 28
localTime = true
compress = true
callerFile = false
callerFunction = false

[store]
name = "state"
driver = "memdb"
dbPath = "datadir"
dbCache = 64

[event]
driver = "log"
brokers = []
topic = "guessnum-events"
writeTimeout = 5000

[metrics]
enableMetrics = false
dataEmitMode = "log"
duration = 10000000000

[exec.sub.guess]
duration = 100
perGuessCost = 100000000
originatorFee = 200000000
hashType = "mimc"
`
