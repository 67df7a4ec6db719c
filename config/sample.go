package config

import (
	"io"
)

var sampleConfig = `amqp:
  host: amqp.vmware.com
  port: 5672
  prefix: vcd
  username: guest
  password: guest
  exchange: vcdext
  routing_key: cse
  vhost: /
  ssl: false
  ssl_accept_all: false

vcd:
  host: vcd.vmware.com
  port: 443
  username: administrator
  password: '???'
  api_version: '29.0'
  verify: false
  log: true

vcs:
- name: vc1
  username: cse_user@vsphere.local
  password: '???'
  verify: false
- name: vc2
  username: cse_user@vsphere.local
  password: '???'
  verify: false

service:
  listeners: 5
  listen_addr: 127.0.0.1:8080

broker:
  type: default
  org: Admin
  vdc: Gold
  catalog: cse
  network: admin_network
  ip_allocation_mode: pool
  storage_profile: '*'
  default_template: photon-v2
  cleanup: true
  templates:
  - name: photon-v2
    catalog_item: photon-custom-hw11-2.0-304b817-k8s
    source_ova_name: photon-custom-hw11-2.0-304b817.ova
    source_ova: https://bintray.com/vmware/photon/download_file?file_path=2.0%2FGA%2Fova%2Fphoton-custom-hw11-2.0-304b817.ova
    sha256_ova: 9d1fa6b75a41b9f34ba543a809a8a41778d2ee45bd89b233a8c013c9399f8e38
    size: 169455531
    temp_vapp: photon2-temp
    cleanup: true
    cpu: 2
    mem: 2048
    admin_password: '???'
    description: 'PhotonOS v2, Docker-ce 17.06.0-9, Kubernetes 1.9.1'
  - name: ubuntu-16.04
    catalog_item: ubuntu-16.04-server-cloudimg-amd64-k8s
    source_ova_name: ubuntu-16.04-server-cloudimg-amd64.ova
    source_ova: https://cloud-images.ubuntu.com/releases/xenial/release-20180112/ubuntu-16.04-server-cloudimg-amd64.ova
    sha256_ova: 3c1bec8e2770af5b9b0462e20b7b24633666feedff43c099a6fb1330fcc869a9
    size: 287637504
    temp_vapp: ubuntu1604-temp
    cleanup: true
    cpu: 2
    mem: 2048
    admin_password: '???'
    description: 'Ubuntu 16.04, Docker-ce 17.12.0, Kubernetes 1.9.2'
`

// GenSample writes the sample configuration file. Credentials are emitted as
// the '???' placeholder and must be replaced before the file validates.
func GenSample(writer io.Writer) error {
	_, err := writer.Write([]byte(sampleConfig))
	return err
}
