package pages

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} · PeerPay</title>
    <link rel="icon" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='.9em' font-size='90'>◉</text></svg>">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --bg: #09090b; --bg-subtle: #18181b; --border: #27272a;
            --text: #fafafa; --text-secondary: #a1a1aa; --text-tertiary: #52525b;
            --accent: #22c55e; --primary: #6366f1; --warning: #f59e0b; --danger: #ef4444;
        }
        body {
            font-family: -apple-system, 'Inter', 'Segoe UI', sans-serif;
            background: var(--bg); color: var(--text);
            min-height: 100vh; font-size: 14px;
            -webkit-font-smoothing: antialiased;
        }
        .mono { font-family: 'JetBrains Mono', ui-monospace, monospace; }
        .container { max-width: 960px; margin: 0 auto; padding: 0 24px; }
        .narrow { max-width: 640px; }
        header {
            border-bottom: 1px solid var(--border); padding: 16px 0;
            position: sticky; top: 0; background: var(--bg); z-index: 100;
        }
        .header-inner { display: flex; justify-content: space-between; align-items: center; gap: 16px; }
        .logo { display: flex; align-items: center; gap: 10px; text-decoration: none; color: var(--text); }
        .logo-mark { width: 24px; height: 24px; background: var(--accent); border-radius: 6px; }
        .logo-text { font-weight: 600; font-size: 15px; }
        nav { display: flex; gap: 24px; align-items: center; }
        nav a { color: var(--text-secondary); text-decoration: none; font-size: 13px; transition: color 0.15s; }
        nav a:hover, nav a.active { color: var(--text); }
        .identity { display: flex; align-items: center; gap: 10px; }
        .avatar { width: 32px; height: 32px; border-radius: 50%; flex-shrink: 0; }
        .identity-name { font-weight: 600; }
        .identity-sub { font-size: 12px; color: var(--text-tertiary); }
        .page-header { padding: 40px 0 24px; }
        .page-title { font-size: 24px; font-weight: 600; margin-bottom: 4px; }
        .page-desc { color: var(--text-secondary); }
        .card {
            background: var(--bg-subtle); border: 1px solid var(--border); border-radius: 12px;
            padding: 20px; margin-bottom: 16px;
        }
        .card-title { font-weight: 600; font-size: 16px; margin-bottom: 12px; }
        .actions { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; margin-bottom: 24px; }
        .action { text-decoration: none; color: inherit; display: block; }
        .action:hover .card { border-color: var(--text-tertiary); }
        .action-sub { color: var(--text-secondary); font-size: 13px; }
        .tabs { display: grid; grid-template-columns: repeat(3, 1fr); gap: 4px; background: var(--bg); border-radius: 8px; padding: 4px; margin-bottom: 16px; }
        .tab { text-align: center; padding: 8px; border-radius: 6px; color: var(--text-secondary); text-decoration: none; font-size: 13px; }
        .tab.active { background: var(--bg-subtle); color: var(--text); border: 1px solid var(--border); }
        .row { display: flex; justify-content: space-between; align-items: center; padding: 14px 16px; border: 1px solid var(--border); border-radius: 8px; margin-bottom: 8px; }
        .row-main { font-weight: 500; }
        .row-sub { font-size: 13px; color: var(--text-secondary); }
        .row-actions { display: flex; gap: 8px; }
        .status { font-size: 13px; text-transform: capitalize; }
        .status-pending { color: var(--warning); }
        .status-paid { color: var(--accent); }
        .status-declined { color: var(--danger); }
        .empty { text-align: center; padding: 32px 16px; color: var(--text-tertiary); }
        .btn {
            display: inline-block; border: 1px solid var(--border); background: var(--bg);
            color: var(--text); border-radius: 8px; padding: 8px 14px; font-size: 13px;
            cursor: pointer; text-decoration: none; font-family: inherit;
        }
        .btn-primary { background: var(--primary); border-color: var(--primary); }
        .btn-success { background: var(--accent); border-color: var(--accent); color: #052e16; }
        .btn-block { display: block; width: 100%; padding: 12px; font-size: 15px; text-align: center; }
        .btn[disabled] { opacity: 0.5; cursor: not-allowed; }
        form.inline { display: inline; }
        label { display: block; font-size: 13px; color: var(--text-secondary); margin-bottom: 6px; }
        input, select {
            width: 100%; background: var(--bg); border: 1px solid var(--border); color: var(--text);
            border-radius: 8px; padding: 10px 12px; font-size: 14px; font-family: inherit;
        }
        input.valid { border-color: var(--accent); }
        input.invalid { border-color: var(--danger); }
        .field { margin-bottom: 20px; }
        .amount-row { display: grid; grid-template-columns: 1fr 120px; gap: 8px; }
        .field-error { color: var(--danger); font-size: 13px; margin-top: 6px; }
        .check { display: flex; gap: 12px; align-items: flex-start; padding: 14px; border: 1px solid var(--border); border-radius: 8px; margin-top: 10px; }
        .check-ok { color: var(--accent); font-size: 13px; }
        .check-bad { color: var(--danger); font-size: 13px; }
        .note { background: var(--bg); border: 1px solid var(--border); border-radius: 8px; padding: 14px; color: var(--text-secondary); font-size: 13px; margin-top: 16px; }
        .note small { display: block; color: var(--text-tertiary); margin-top: 4px; }
        .summary div { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid var(--border); }
        .summary div:last-child { border-bottom: 0; }
        .summary dt { color: var(--text-secondary); }
        .overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.6); display: flex; align-items: center; justify-content: center; padding: 24px; }
        .modal { max-width: 440px; width: 100%; }
        .modal-actions { display: grid; grid-template-columns: 1fr 1fr; gap: 8px; margin-top: 16px; }
        .hero { text-align: center; padding: 96px 0 64px; }
        .hero h1 { font-size: 40px; font-weight: 700; margin-bottom: 12px; }
        .hero p { color: var(--text-secondary); font-size: 16px; margin-bottom: 32px; }
        .features { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
        .chain-list label { display: flex; align-items: center; gap: 10px; padding: 10px 12px; border: 1px solid var(--border); border-radius: 8px; margin-bottom: 8px; color: var(--text); }
        .chain-list input { width: auto; }
        .badge { font-size: 11px; color: var(--text-tertiary); border: 1px solid var(--border); border-radius: 4px; padding: 1px 6px; }
        .flash { border-color: var(--danger); color: var(--danger); }
        footer { border-top: 1px solid var(--border); padding: 24px 0; margin-top: 48px; text-align: center; color: var(--text-tertiary); font-size: 13px; }
        footer a { color: var(--text-secondary); text-decoration: none; }
        @media (max-width: 720px) { .actions, .features { grid-template-columns: 1fr; } }
    </style>
</head>
<body>
    <header><div class="container header-inner">
        <a href="/" class="logo"><div class="logo-mark"></div><span class="logo-text">PeerPay</span></a>
        {{if .Session.Connected}}
        <nav>
            <a href="/dashboard"{{if eq .Active "dashboard"}} class="active"{{end}}>Dashboard</a>
            <a href="/requests"{{if eq .Active "requests"}} class="active"{{end}}>Requests</a>
            <a href="/inbox"{{if eq .Active "inbox"}} class="active"{{end}}>Inbox</a>
            <a href="/giveaway"{{if eq .Active "giveaway"}} class="active"{{end}}>Giveaway</a>
            <a href="/settings"{{if eq .Active "settings"}} class="active"{{end}}>Settings</a>
        </nav>
        <div class="identity">
            <div class="avatar" style="background: hsl({{hue .Address}}, 70%, 55%)"></div>
            <div>
                <div class="identity-name">{{.Session.DisplayName}}</div>
                <div class="identity-sub mono">{{.Session.ShortAddress}} · {{.Session.ChainName}}</div>
            </div>
            <form class="inline" method="post" action="/disconnect"><button class="btn" type="submit">Disconnect</button></form>
        </div>
        {{end}}
    </div></header>
    <main class="container">
{{template "content" .}}
    </main>
    <footer><div class="container">Simulated wallet · nothing is signed or sent on-chain · <a href="/v1/session">API</a></div></footer>
    {{if .Session.Connected}}
    <script>
    (function () {
        var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        var ws = new WebSocket(proto + location.host + '/ws');
        ws.onmessage = function (msg) {
            var ev = JSON.parse(msg.data);
            if (ev.type === 'session.disconnected' || ev.type === 'session.chain_switched') {
                location.reload();
            }
        };
    })();
    </script>
    {{end}}
</body>
</html>{{end}}`

const landingHTML = `{{define "content"}}
        <section class="hero">
            <h1>Request and send crypto, peer to peer</h1>
            <p>Ask friends for USDC by ENS name or address. Pay requests in one click.</p>
            <form method="post" action="/connect">
                <button class="btn btn-primary" type="submit">Connect Wallet</button>
            </form>
        </section>
        <section class="features">
            <div class="card"><div class="card-title">ENS names</div><div class="action-sub">Send to vitalik.eth instead of a 42 character address.</div></div>
            <div class="card"><div class="card-title">Stablecoins</div><div class="action-sub">USDC, USDT and DAI alongside ETH and MATIC.</div></div>
            <div class="card"><div class="card-title">Multi-chain</div><div class="action-sub">Ethereum, Base and Polygon, mainnets and testnets.</div></div>
        </section>
{{end}}`

const dashboardHTML = `{{define "content"}}
        <div class="page-header">
            <div class="page-title">Dashboard</div>
            <div class="page-desc">Requests you owe and requests you are owed.</div>
        </div>
        <div class="actions">
            <a class="action" href="/request"><div class="card"><div class="card-title">New Request</div><div class="action-sub">Request payment from someone</div></div></a>
            <a class="action" href="/send"><div class="card"><div class="card-title">Send Money</div><div class="action-sub">Send payment to someone</div></div></a>
        </div>
        <div class="card">
            <div class="card-title">Payments</div>
            <div class="tabs">
                {{range .Data.Tabs}}<a class="tab{{if .Active}} active{{end}}" href="/dashboard?tab={{.Key}}">{{.Label}} ({{.Count}})</a>{{end}}
            </div>
            {{template "rows" .Data}}
        </div>
        {{with .Data.Pay}}
        <div class="overlay">
            <div class="card modal">
                <div class="card-title">Pay Request</div>
                <dl class="summary">
                    <div><dt>To</dt><dd>{{.Recipient}}</dd></div>
                    <div><dt>Address</dt><dd class="mono">{{.ShortAddress}}</dd></div>
                    <div><dt>Amount</dt><dd>${{.Amount}} {{.Token}}</dd></div>
                    <div><dt>Network Fee</dt><dd>{{.NetworkFee}}</dd></div>
                </dl>
                <div class="modal-actions">
                    <a class="btn" href="/dashboard">Cancel</a>
                    <form method="post" action="/pay/{{.RequestID}}"><button class="btn btn-success btn-block" type="submit">Confirm Payment</button></form>
                </div>
            </div>
        </div>
        {{end}}
{{end}}`

const rowsHTML = `{{define "rows"}}
            {{if .Items}}
            {{range .Items}}
            <div class="row">
                <div>
                    <div class="row-main">{{if eq .Direction "incoming"}}↓{{else}}↑{{end}} {{.Counterparty}}</div>
                    <div class="row-sub">{{if and (eq .Direction "incoming") .IsPending}}Requesting {{end}}{{.AmountLabel}} · {{.Timestamp.Format "Jan 2, 2006"}}</div>
                </div>
                {{if and $.Actions (eq .Direction "incoming") .IsPending}}
                <div class="row-actions">
                    <form class="inline" method="post" action="/decline/{{.ID}}"><button class="btn" type="submit">Decline</button></form>
                    <a class="btn btn-success" href="/dashboard?pay={{.ID}}">Pay</a>
                </div>
                {{else}}
                <span class="status status-{{.Status}}">{{.Status}}</span>
                {{end}}
            </div>
            {{end}}
            {{else}}
            <div class="empty">{{.Empty}}</div>
            {{end}}
{{end}}`

const requestFormHTML = `{{define "content"}}
        <div class="container narrow">
        <div class="page-header">
            <div class="page-title"><a class="btn" href="/dashboard">←</a> {{.Data.Heading}}</div>
        </div>
        <form class="card" method="post" action="/request/review">
            <div class="card-title">{{.Data.CardTitle}}</div>
            <input type="hidden" name="mode" value="{{.Data.Mode}}">
            <div class="field">
                <label for="recipient">To: (ENS Name or Address)</label>
                <input id="recipient" name="recipient" placeholder="vitalik.eth or 0x..." autocomplete="off"
                    value="{{.Data.Recipient}}"{{with .Data.Check}} class="{{if .IsValid}}valid{{else}}invalid{{end}}"{{end}}>
                <div id="recipient-check">
                {{with .Data.Check}}
                    {{if .IsValid}}
                    <div class="check">
                        <div class="avatar" style="background: hsl({{hue .ResolvedAddress}}, 70%, 55%)"></div>
                        <div>
                            <div class="row-main">{{.DisplayName}}</div>
                            <div class="row-sub mono">{{short .ResolvedAddress}}</div>
                            <div class="check-ok">✓ Address is valid</div>
                        </div>
                    </div>
                    {{else}}
                    <div class="check"><div class="check-bad">{{.Message}}</div></div>
                    {{end}}
                {{end}}
                </div>
                {{with .Data.Errors.Field "recipient"}}{{if not $.Data.Check}}<div class="field-error">{{.}}</div>{{end}}{{end}}
            </div>
            <div class="field">
                <label for="amount">Amount</label>
                <div class="amount-row">
                    <input id="amount" name="amount" type="number" step="any" min="0" placeholder="0.00" value="{{.Data.Amount}}">
                    <select name="token">
                        {{range .Data.Tokens}}<option value="{{.}}"{{if eq . $.Data.Token}} selected{{end}}>{{.}}</option>{{end}}
                    </select>
                </div>
                {{with .Data.Errors.Field "amount"}}<div class="field-error">{{.}}</div>{{end}}
                {{with .Data.Errors.Field "token"}}<div class="field-error">{{.}}</div>{{end}}
            </div>
            <button class="btn btn-primary btn-block" type="submit">{{.Data.Submit}}</button>
            <div class="note">
                <strong>Network Fee:</strong> {{.Data.NetworkFee}}
                <small>Fees may vary based on network congestion</small>
            </div>
        </form>
        </div>
        <script>
        (function () {
            var input = document.getElementById('recipient');
            var out = document.getElementById('recipient-check');
            var timer;
            input.addEventListener('input', function () {
                clearTimeout(timer);
                timer = setTimeout(function () {
                    fetch('/v1/addresses/validate?input=' + encodeURIComponent(input.value))
                        .then(function (r) { return r.json(); })
                        .then(function (body) {
                            var res = body.result;
                            input.className = res ? (res.isValid ? 'valid' : 'invalid') : '';
                            out.textContent = '';
                            if (!res) { return; }
                            var box = document.createElement('div');
                            box.className = 'check';
                            var line = document.createElement('div');
                            if (res.isValid) {
                                var addr = res.resolvedAddress || '';
                                line.className = 'check-ok';
                                line.textContent = (res.resolvedENS || 'Valid Address') +
                                    (addr ? ' · ' + addr.slice(0, 6) + '...' + addr.slice(-4) : '') +
                                    ' ✓ Address is valid';
                            } else {
                                line.className = 'check-bad';
                                line.textContent = res.message;
                            }
                            box.appendChild(line);
                            out.appendChild(box);
                        });
                }, 150);
            });
        })();
        </script>
{{end}}`

const reviewHTML = `{{define "content"}}
        <div class="overlay">
            <div class="card modal">
                <div class="card-title">{{.Data.Title}}</div>
                <dl class="summary">
                    <div><dt>{{if eq .Data.Mode "send"}}To{{else}}From{{end}}</dt><dd>{{.Data.DisplayName}}</dd></div>
                    <div><dt>Address</dt><dd class="mono">{{.Data.ShortAddress}}</dd></div>
                    <div><dt>Amount</dt><dd>${{.Data.Amount}} {{.Data.Token}}</dd></div>
                    <div><dt>Network Fee</dt><dd>{{.Data.NetworkFee}}</dd></div>
                </dl>
                <div class="modal-actions">
                    <a class="btn" href="{{.Data.ReturnTo}}">Close</a>
                    <a class="btn btn-primary" href="{{.Data.ReturnTo}}">Confirm</a>
                </div>
            </div>
        </div>
{{end}}`

const receiptHTML = `{{define "content"}}
        <div class="container narrow">
        <div class="page-header">
            <div class="page-title">Payment sent</div>
            <div class="page-desc">Simulated. No transaction was broadcast.</div>
        </div>
        <div class="card">
            <dl class="summary">
                <div><dt>To</dt><dd>{{.Data.Recipient}}</dd></div>
                <div><dt>Address</dt><dd class="mono">{{short .Data.RecipientAddress}}</dd></div>
                <div><dt>Amount</dt><dd>${{.Data.Amount}} {{.Data.Token}}</dd></div>
                <div><dt>Transaction</dt><dd class="mono">{{short .Data.TxHash}}</dd></div>
            </dl>
        </div>
        <a class="btn btn-block" href="/dashboard">Back to Dashboard</a>
        </div>
{{end}}`

const listHTML = `{{define "content"}}
        <div class="page-header">
            <div class="page-title">{{.Title}}</div>
            <div class="page-desc">{{.Data.Description}}</div>
        </div>
        <div class="card">
            {{template "rows" .Data}}
        </div>
{{end}}`

const settingsHTML = `{{define "content"}}
        <div class="container narrow">
        <div class="page-header">
            <div class="page-title">Settings</div>
            <div class="page-desc">Profile and network for this session.</div>
        </div>
        <div class="card">
            <div class="card-title">Profile</div>
            <dl class="summary">
                <div><dt>ENS</dt><dd>{{.Session.DisplayName}}</dd></div>
                <div><dt>Address</dt><dd class="mono">{{.Data.Address}}</dd></div>
                <div><dt>Network</dt><dd>{{.Session.ChainName}}</dd></div>
            </dl>
        </div>
        <form class="card" method="post" action="/settings/chain">
            <div class="card-title">Network</div>
            {{with .Data.Error}}<div class="check flash">{{.}}</div>{{end}}
            <div class="chain-list">
            {{range .Data.Chains}}
                <label><input type="radio" name="chainId" value="{{.ID}}"{{if .Current}} checked{{end}}> {{.Name}} {{if .Testnet}}<span class="badge">testnet</span>{{end}}</label>
            {{end}}
            </div>
            <button class="btn btn-primary btn-block" type="submit">Switch Network</button>
        </form>
        </div>
{{end}}`

const giveawayHTML = `{{define "content"}}
        <div class="container narrow">
        <div class="page-header">
            <div class="page-title">Giveaway</div>
            <div class="page-desc">Community rewards for early PeerPay users.</div>
        </div>
        <div class="card">
            <div class="card-title">Nothing to claim yet</div>
            <div class="action-sub">Connected as {{.Session.DisplayName}} on {{.Session.ChainName}}. Check back when the next round opens.</div>
        </div>
        </div>
{{end}}`

const notFoundHTML = `{{define "content"}}
        <section class="hero">
            <h1>404</h1>
            <p>Oops! Page not found</p>
            <a class="btn" href="/">Return to Home</a>
        </section>
{{end}}`
