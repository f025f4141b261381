package diagnostics

const stationWireless = `<?xml version="1.0" ?>
<?xml-stylesheet type="text/xsl" href="/xml/review.xsl"?><ZPSupportInfo><File name="/proc/ath_rincon/station">
SSID: [HomeNet] (4) 80:2A:A8:D1:07:95
Channel: current: 11 ap: 6
  Node MAC               RSSI Rate Beacons PRR   Drops Retries Age
   0 80:2a:a8:d1:07:95 42 7 1234 0.987 12 3 1
total 1
</File></ZPSupportInfo>`

const stationWired = `<?xml version="1.0" ?>
<ZPSupportInfo><File name="/proc/ath_rincon/station">
no wireless association
</File></ZPSupportInfo>`

const stationMarkerOnly = `<ZPSupportInfo><File name="/proc/ath_rincon/station">SSID scan in progress</File></ZPSupportInfo>`

const dmesgFixture = `<?xml version="1.0" ?>
<ZPSupportInfo><Command cmdline='/bin/dmesg'>
&lt;6&gt;[   12.300000] wlan: associated
&lt;6&gt;[   13.000000] ath: sta RSSI avg=38, TX rate now 54M, retries 3
&lt;6&gt;[   20.000000] ath: sta RSSI avg=20, TX rate now 11M
&lt;4&gt;[   30.000000] ath: ap 80:2a:a8:d1:07:96 blacklisted for 60s
&lt;4&gt;[   31.000000] ath: ap 80:2a:a8:d1:07:97 blacklisted for 60s
</Command></ZPSupportInfo>`

const perfFixture = `<?xml version="1.0" ?>
<ZPSupportInfo><PerformanceCounters>
<Counter name="Audio Underruns">0</Counter>
<Counter name="CHSNK Fill Level">fill-level histogram
  bucket: 1 2 3 4 5 6 7 8 9 10 11
  count: 10 0 0 0 0 0 0 0 0 0 10 0 0
</Counter>
</PerformanceCounters></ZPSupportInfo>`

const perfZeroFixture = `<ZPSupportInfo><PerformanceCounters>
<Counter name="CHSNK Fill Level">fill-level histogram
  bucket: 1 2 3 4 5 6 7 8 9 10 11
  count: 0 0 0 0 0 0 0 0 0 0 0
</Counter>
</PerformanceCounters></ZPSupportInfo>`

const scanFixture = `<ZPSupportInfo><Command cmdline='/usr/sbin/wlanscan'>
Scan results:
80:2a:a8:d1:07:96: chan: 6 rssi: 31 ssid: HomeNet
f0:9f:c2:10:20:30: chan: 11 rssi: 45 ssid: HomeNet
0a:0b:0c:0d:0e:0f: chan: 1 rssi: 12 ssid: Neighbours
</Command></ZPSupportInfo>`
